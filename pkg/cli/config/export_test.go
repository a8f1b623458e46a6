package config

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}

// NewGeminiForTest creates a Gemini config for testing purposes
func NewGeminiForTest(projectID, location string) *Gemini {
	return &Gemini{
		projectID: projectID,
		location:  location,
	}
}

// NewEngineForTest creates an Engine config for testing purposes
func NewEngineForTest(chunkSize, topK int, threshold float64, rulePath string) *Engine {
	return &Engine{
		chunkSize: chunkSize,
		topK:      topK,
		threshold: threshold,
		rulePath:  rulePath,
	}
}
