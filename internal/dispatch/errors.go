package dispatch

import "errors"

// Sentinel errors transports translate their own vocabulary from. The
// dispatch core's own methods report these conditions through plain bool
// returns and silent no-ops per the specification's error-handling design
// (§7); these sentinels exist so HTTP/AMQP handlers can produce consistent,
// errors.Is-compatible responses when a core call reports failure.
var (
	// ErrTimeRegression corresponds to Tick(t) with t < current_time.
	ErrTimeRegression = errors.New("dispatch: tick time regression")
	// ErrNullEvent corresponds to Notify/Deliver called with a nil event.
	ErrNullEvent = errors.New("dispatch: nil event")
)
