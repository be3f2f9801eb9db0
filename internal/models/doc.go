// Package models defines the data model for the BioFlow analysis client.
package models
