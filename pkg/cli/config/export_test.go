package config

import "time"

// NewGeminiForTest creates a Gemini config for testing purposes
func NewGeminiForTest(projectID, location string) *Gemini {
	return &Gemini{
		projectID: projectID,
		location:  location,
	}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, dir string) *Repository {
	return &Repository{backend: backend, dir: dir}
}

// NewAnalyzerForTest creates an Analyzer config for testing purposes
func NewAnalyzerForTest(backend, apiKey string) *Analyzer {
	return &Analyzer{backend: backend, apiKey: apiKey}
}

// NewDashboardServiceForTest creates a DashboardService config for testing purposes
func NewDashboardServiceForTest(endpoint string) *DashboardService {
	return &DashboardService{endpoint: endpoint, timeout: time.Second, maxFailures: 3, openDuration: time.Second}
}

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(webhookURL string) *Slack {
	return &Slack{webhookURL: webhookURL}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}
