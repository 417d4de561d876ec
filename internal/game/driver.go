package game

import (
	"context"
	"time"
)

// SteeringSource decides the player's input from the time raced so far.
type SteeringSource func(raced time.Duration) Steering

// Autopilot flips between right and left every period, starting right.
func Autopilot(period time.Duration) SteeringSource {
	return func(raced time.Duration) Steering {
		if period <= 0 {
			return Steering{}
		}
		n := int64(raced / period)
		if n%2 == 1 {
			return Steering{Left: true}
		}
		return Steering{Right: true}
	}
}

// Driver ticks a Controller at a fixed interval. Ticks never overlap:
// each Update completes before the next tick is taken from the ticker.
type Driver struct {
	Controller *Controller
	Interval   time.Duration
	Steering   SteeringSource   // optional
	OnFrame    func(f Frame)    // optional
	Now        func() time.Time // defaults to time.Now
}

// Run drives the race until game over or ctx is done.
func (d *Driver) Run(ctx context.Context) error {
	interval := d.Interval
	if interval <= 0 {
		interval = TickInterval
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}
	c := d.Controller

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.Start(now())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.Done():
			return nil
		case <-ticker.C:
			t := now()
			if d.Steering != nil && c.State() == StateRacing {
				c.SetSteering(d.Steering(t.Sub(c.RaceStart())))
			}
			f := c.Update(t)
			if d.OnFrame != nil {
				d.OnFrame(f)
			}
		}
	}
}
