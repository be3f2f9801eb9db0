package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/bioflow/internal/models"
)

var _ list.Item = jobItem{}

// jobItem wraps [models.Job] to implement [list.Item].
type jobItem struct {
	job models.Job
}

func (i jobItem) FilterValue() string { return i.job.JobID }
func (i jobItem) Title() string {
	return fmt.Sprintf("%s  %s", i.job.JobID, StatusBadge(i.job.EffectiveStatus()))
}
func (i jobItem) Description() string {
	desc := i.job.CreatedAt
	if i.job.Summary != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.job.Summary)
	}
	if i.job.ResultFilename != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.job.ResultFilename)
	}
	return desc
}
