package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cenov2/internal/power"
)

func cmdGet(ctx context.Context, e *env) error {
	mode, err := e.backend.Current(ctx)
	if !mode.Valid() {
		if err == nil {
			err = errors.New("unrecognised profile")
		}
		return fmt.Errorf("current mode unknown: %w", err)
	}
	fmt.Fprintln(e.stdout, mode)
	return nil
}

func cmdSet(ctx context.Context, e *env, arg string) error {
	mode, err := power.ParseMode(arg)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	rep, err := e.backend.Switch(ctx, mode)
	if errors.Is(err, power.ErrAlreadyApplied) {
		fmt.Fprintf(e.stdout, "already on %s\n", mode)
		return nil
	}
	for _, l := range rep.Lines() {
		fmt.Fprintln(e.stdout, l.Text)
	}
	if err != nil {
		return fmt.Errorf("set %s: %w", mode, err)
	}
	return nil
}

func cmdStatus(ctx context.Context, e *env) error {
	snap := e.collector.Collect(ctx)

	gov := snap.Governor
	if gov == "" {
		gov = "N/A"
	}
	avail, _ := e.backend.AvailableGovernors()
	availText := strings.Join(avail, " ")
	if availText == "" {
		availText = "N/A"
	}
	battery := "none"
	if snap.Battery != nil {
		battery = fmt.Sprintf("%d%%", snap.Battery.Capacity)
		if snap.Battery.Status != "" {
			battery += " (" + snap.Battery.Status + ")"
		}
	}
	mode, _ := e.backend.Current(ctx)

	rows := [][2]string{
		{"method", e.backend.Method().String()},
		{"mode", mode.String()},
		{"governor", gov},
		{"available", availText},
		{"battery", battery},
		{"ac", snap.AC.String()},
	}
	if snap.HasCPU {
		rows = append(rows, [2]string{"cpu", snap.CPULabel()})
	}
	for _, r := range rows {
		fmt.Fprintf(e.stdout, "%-10s %s\n", r[0], r[1])
	}
	return nil
}
