package dto

import "github.com/mahefa-ra/agentwatch/internal/domain/threshold"

// ThresholdDTO represents the detection threshold configuration on the
// wire. Updates replace the whole object, so every field is required.
type ThresholdDTO struct {
	RapidActionsCount              int  `json:"rapidActionsCount" validate:"required,gte=1"`
	RapidActionsWindowMinutes      int  `json:"rapidActionsWindowMinutes" validate:"required,gte=1"`
	MassStatusChangesCount         int  `json:"massStatusChangesCount" validate:"required,gte=1"`
	MassStatusChangesWindowMinutes int  `json:"massStatusChangesWindowMinutes" validate:"required,gte=1"`
	MassRejectionsCount            int  `json:"massRejectionsCount" validate:"required,gte=1"`
	MassRejectionsWindowMinutes    int  `json:"massRejectionsWindowMinutes" validate:"required,gte=1"`
	QuickResolutionMinutes         int  `json:"quickResolutionMinutes" validate:"required,gte=1"`
	OffHoursStart                  int  `json:"offHoursStart" validate:"gte=0,lte=23"`
	OffHoursEnd                    int  `json:"offHoursEnd" validate:"gte=0,lte=23"`
	NotifyEmail                    bool `json:"notifyEmail"`
	NotifyInApp                    bool `json:"notifyInApp"`
}

// NewThresholdDTO converts a domain config for the wire
func NewThresholdDTO(cfg threshold.Config) ThresholdDTO {
	return ThresholdDTO{
		RapidActionsCount:              cfg.RapidActionsCount,
		RapidActionsWindowMinutes:      cfg.RapidActionsWindowMinutes,
		MassStatusChangesCount:         cfg.MassStatusChangesCount,
		MassStatusChangesWindowMinutes: cfg.MassStatusChangesWindowMinutes,
		MassRejectionsCount:            cfg.MassRejectionsCount,
		MassRejectionsWindowMinutes:    cfg.MassRejectionsWindowMinutes,
		QuickResolutionMinutes:         cfg.QuickResolutionMinutes,
		OffHoursStart:                  cfg.OffHoursStart,
		OffHoursEnd:                    cfg.OffHoursEnd,
		NotifyEmail:                    cfg.NotifyEmail,
		NotifyInApp:                    cfg.NotifyInApp,
	}
}

// ToConfig converts the DTO back into the domain config
func (d ThresholdDTO) ToConfig() threshold.Config {
	return threshold.Config{
		RapidActionsCount:              d.RapidActionsCount,
		RapidActionsWindowMinutes:      d.RapidActionsWindowMinutes,
		MassStatusChangesCount:         d.MassStatusChangesCount,
		MassStatusChangesWindowMinutes: d.MassStatusChangesWindowMinutes,
		MassRejectionsCount:            d.MassRejectionsCount,
		MassRejectionsWindowMinutes:    d.MassRejectionsWindowMinutes,
		QuickResolutionMinutes:         d.QuickResolutionMinutes,
		OffHoursStart:                  d.OffHoursStart,
		OffHoursEnd:                    d.OffHoursEnd,
		NotifyEmail:                    d.NotifyEmail,
		NotifyInApp:                    d.NotifyInApp,
	}
}
