// Package sysinfo collects host facts relevant to graphics health: the
// kernel, the GPUs lspci reports with their drivers, installed driver
// packages and recent error entries of the system journal.
//
// External commands run through Runner, which applies a timeout and keeps
// a transcript of every invocation in a log directory.
package sysinfo
