package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/bioflow/internal/api"
	"github.com/desertthunder/bioflow/internal/history"
	"github.com/desertthunder/bioflow/internal/models"
)

// refreshInterval is the dashboard's background job-list refresh period.
const refreshInterval = 10 * time.Second

// JobAPI defines the API surface the dashboard needs.
type JobAPI interface {
	ListJobs(ctx context.Context) ([]models.Job, error)
	Download(ctx context.Context, jobID string, kind models.DownloadKind) (*api.Artifact, error)
	DeleteJob(ctx context.Context, jobID string) error
}

// ViewState represents the current view in the dashboard.
type ViewState int

const (
	JobListView ViewState = iota
	ConfirmDeleteView
)

// LoadState distinguishes an empty job list from one that could not be
// fetched, so the two render differently.
type LoadState int

const (
	Loading LoadState = iota
	Empty
	LoadError
	Loaded
)

type jobsLoadedMsg struct {
	jobs []models.Job
	err  error
}

type downloadDoneMsg struct {
	path string
	err  error
}

type deleteDoneMsg struct {
	jobID string
	err   error
}

type refreshTickMsg time.Time

// Model represents the dashboard state.
type Model struct {
	ctx           context.Context
	api           JobAPI
	hist          *history.Store
	downloadsDir  string
	loggedIn      bool
	view          ViewState
	load          LoadState
	loadErr       error
	jobs          []models.Job
	jobList       list.Model
	pendingDelete string
	statusLine    string
	width         int
	height        int
	help          help.Model
	keys          keyMap
}

// NewModel creates a dashboard model. The history store may be nil.
func NewModel(ctx context.Context, client JobAPI, hist *history.Store, downloadsDir string, loggedIn bool) *Model {
	jobList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	jobList.Title = "Analysis Jobs"
	jobList.SetShowHelp(false)

	return &Model{
		ctx:          ctx,
		api:          client,
		hist:         hist,
		downloadsDir: downloadsDir,
		loggedIn:     loggedIn,
		view:         JobListView,
		load:         Loading,
		jobList:      jobList,
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

// Init starts the first job-list fetch and the refresh timer.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchJobs(), m.scheduleRefresh())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.jobList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case JobListView:
			return m.handleJobListKeys(msg)
		case ConfirmDeleteView:
			return m.handleConfirmKeys(msg)
		}

	case jobsLoadedMsg:
		if msg.err != nil {
			m.load = LoadError
			m.loadErr = msg.err
			return m, nil
		}
		m.jobs = msg.jobs
		m.loadErr = nil
		if len(msg.jobs) == 0 {
			m.load = Empty
		} else {
			m.load = Loaded
		}
		items := make([]list.Item, len(msg.jobs))
		for i, job := range msg.jobs {
			items[i] = jobItem{job: job}
		}
		return m, m.jobList.SetItems(items)

	case downloadDoneMsg:
		if msg.err != nil {
			m.statusLine = styles.err.Render(fmt.Sprintf("Download failed: %v", msg.err))
		} else {
			m.statusLine = styles.ok.Render(fmt.Sprintf("Saved %s", msg.path))
		}
		return m, nil

	case deleteDoneMsg:
		if msg.err != nil {
			m.statusLine = styles.err.Render(fmt.Sprintf("Delete failed: %v", msg.err))
			return m, nil
		}
		m.statusLine = styles.ok.Render(fmt.Sprintf("Deleted %s", msg.jobID))
		// Full refetch, no optimistic local removal
		return m, m.fetchJobs()

	case refreshTickMsg:
		// Background refresh only runs while a token is present
		if !m.loggedIn {
			return m, m.scheduleRefresh()
		}
		return m, tea.Batch(m.fetchJobs(), m.scheduleRefresh())
	}

	var cmd tea.Cmd
	m.jobList, cmd = m.jobList.Update(msg)
	return m, cmd
}

// View renders the current view.
func (m *Model) View() string {
	switch m.view {
	case ConfirmDeleteView:
		return m.renderConfirm()
	default:
		return m.renderJobList()
	}
}

func (m *Model) handleJobListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.load = Loading
		return m, m.fetchJobs()
	case "d":
		if job, ok := m.selectedJob(); ok {
			return m, m.download(job, models.KindResult)
		}
	case "p":
		if job, ok := m.selectedJob(); ok {
			return m, m.download(job, models.KindPlot)
		}
	case "x":
		if job, ok := m.selectedJob(); ok {
			m.pendingDelete = job.JobID
			m.view = ConfirmDeleteView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.jobList, cmd = m.jobList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		jobID := m.pendingDelete
		m.pendingDelete = ""
		m.view = JobListView
		return m, m.deleteJob(jobID)
	case "n", "esc", "q":
		// Declined: no DELETE is issued and the list is not reloaded
		m.pendingDelete = ""
		m.view = JobListView
		return m, nil
	}
	return m, nil
}

func (m *Model) selectedJob() (models.Job, bool) {
	selected := m.jobList.SelectedItem()
	if selected == nil {
		return models.Job{}, false
	}
	item, ok := selected.(jobItem)
	return item.job, ok
}

func (m *Model) fetchJobs() tea.Cmd {
	return func() tea.Msg {
		jobs, err := m.api.ListJobs(m.ctx)
		if err == nil && m.hist != nil {
			m.hist.RecordJobs(jobs)
		}
		return jobsLoadedMsg{jobs: jobs, err: err}
	}
}

func (m *Model) scheduleRefresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

func (m *Model) download(job models.Job, kind models.DownloadKind) tea.Cmd {
	return func() tea.Msg {
		artifact, err := m.api.Download(m.ctx, job.JobID, kind)
		if err != nil {
			return downloadDoneMsg{err: err}
		}

		path := filepath.Join(m.downloadsDir, artifact.Filename)
		if err := os.WriteFile(path, artifact.Data, 0644); err != nil {
			return downloadDoneMsg{err: err}
		}

		if m.hist != nil {
			m.hist.RecordDownload(job.JobID, kind, artifact.Filename, path)
		}
		return downloadDoneMsg{path: path}
	}
}

func (m *Model) deleteJob(jobID string) tea.Cmd {
	return func() tea.Msg {
		return deleteDoneMsg{jobID: jobID, err: m.api.DeleteJob(m.ctx, jobID)}
	}
}

func (m *Model) renderJobList() string {
	helpView := m.help.ShortHelpView(m.keys.ShortHelp())

	var body string
	switch m.load {
	case Loading:
		body = styles.warn.Render("Loading jobs...")
	case Empty:
		body = styles.help.Render("No analysis jobs yet. Run `bioflow analyze` to start one.")
	case LoadError:
		body = styles.err.Render(fmt.Sprintf("Failed to load jobs: %v", m.loadErr))
	default:
		body = m.jobList.View()
	}

	if m.statusLine != "" {
		return fmt.Sprintf("%s\n\n%s\n\n%s", body, m.statusLine, helpView)
	}
	return fmt.Sprintf("%s\n\n%s", body, helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Delete job %s?", m.pendingDelete))
	info := "\nThe job and its result files are removed from the server.\n"
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no})

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}
