package preflight

import (
	"context"

	"setup-automate/internal/config"
	"setup-automate/internal/logger"
	"setup-automate/internal/report"
)

// RunOptions controls what Run does after the requirement sections.
type RunOptions struct {
	// Launch runs cfg.Launch once every section has passed.
	Launch bool
	// Report, when set, receives a step for every requirement checked.
	Report *report.Report
}

// Run checks every section of cfg in order and stops at the first failure.
func Run(ctx context.Context, c *Checker, cfg config.Config, opts RunOptions) error {
	for _, section := range cfg.Sections {
		logger.Banner(section.Title)
		for _, req := range section.Requirements {
			remediated, err := c.ensure(ctx, req)
			step := report.Step{
				Section:     section.Title,
				Requirement: req.Name,
				Kind:        string(req.Kind),
				Status:      report.StatusOK,
			}
			if remediated {
				step.Status = report.StatusRemediated
			}
			if err != nil {
				step.Status = report.StatusFailed
				step.Detail = err.Error()
				opts.Report.Add(step)
				return err
			}
			opts.Report.Add(step)
		}
		if section.FootNote != "" {
			logger.FootNote(section.FootNote)
		}
	}

	if !opts.Launch {
		return nil
	}

	launch := cfg.Launch
	logger.Banner(launch.Title)
	step := report.Step{Section: launch.Title, Requirement: launch.Title, Kind: string(KindLaunch), Status: report.StatusOK}
	if err := c.Launch(ctx, launch); err != nil {
		step.Status = report.StatusFailed
		step.Detail = err.Error()
		opts.Report.Add(step)
		return err
	}
	opts.Report.Add(step)
	if launch.FootNote != "" {
		logger.FootNote(launch.FootNote)
	}
	for _, line := range launch.Complete {
		logger.Plain("%s\n", line)
	}
	return nil
}
