// Package tasks implements long-running client operations against the
// BioFlow API, chiefly the job poller.
//
// Operations emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers.
package tasks
