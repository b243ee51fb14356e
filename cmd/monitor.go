package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
	"github.com/urfave/cli/v2"
)

// registryStatus mirrors the shape returned by GET /registry on the HTTP
// control surface.
type registryStatus struct {
	EventTypes []string `json:"event_types"`
}

// queueStatus mirrors the shape returned by GET /events.
type queueStatus struct {
	HasEvents       bool   `json:"has_events"`
	CurrentTimestep uint64 `json:"current_timestep"`
}

func monitorCmd() *cli.Command {
	return &cli.Command{
		Name:  "monitor",
		Usage: "Live terminal dashboard of a running dispatch core's HTTP control surface",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "HTTP control surface base address",
				Value: "http://localhost:8080",
			},
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "Poll interval",
				Value: time.Second,
			},
		},
		Action: func(c *cli.Context) error {
			return runMonitor(c.String("addr"), c.Duration("interval"))
		},
	}
}

func runMonitor(addr string, interval time.Duration) error {
	if err := ui.Init(); err != nil {
		return fmt.Errorf("monitor: init terminal: %w", err)
	}
	defer ui.Close()

	queue := widgets.NewParagraph()
	queue.Title = "Queue"
	queue.SetRect(0, 0, 50, 5)

	registry := widgets.NewList()
	registry.Title = "Registered event types"
	registry.SetRect(0, 5, 50, 20)

	client := &http.Client{Timeout: 2 * time.Second}
	refresh := func() {
		if qs, err := fetchQueueStatus(client, addr); err == nil {
			queue.Text = fmt.Sprintf("has_events: %v\ntimestep:   %d", qs.HasEvents, qs.CurrentTimestep)
		} else {
			queue.Text = fmt.Sprintf("error: %v", err)
		}
		if rs, err := fetchRegistryStatus(client, addr); err == nil {
			registry.Rows = rs.EventTypes
		}
		ui.Render(queue, registry)
	}

	refresh()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	events := ui.PollEvents()
	for {
		select {
		case e := <-events:
			switch e.ID {
			case "q", "<C-c>":
				return nil
			}
		case <-ticker.C:
			refresh()
		}
	}
}

func fetchQueueStatus(client *http.Client, addr string) (queueStatus, error) {
	var qs queueStatus
	resp, err := client.Get(addr + "/events")
	if err != nil {
		return qs, err
	}
	defer resp.Body.Close()
	err = json.NewDecoder(resp.Body).Decode(&qs)
	return qs, err
}

func fetchRegistryStatus(client *http.Client, addr string) (registryStatus, error) {
	var rs registryStatus
	resp, err := client.Get(addr + "/registry")
	if err != nil {
		return rs, err
	}
	defer resp.Body.Close()
	err = json.NewDecoder(resp.Body).Decode(&rs)
	return rs, err
}
