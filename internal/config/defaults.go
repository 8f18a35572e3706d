package config

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseDir: DefaultBaseDir(),

		Auth: AuthConfig{
			CallbackPort: 8765,
		},

		Storage: StorageConfig{
			Backend:     StorageLocal,
			AudioBucket: "audio-files",
			ImageBucket: "ai-images",
		},

		GitHub: GitHubConfig{
			RateLimit: 30,
		},

		LLM: DefaultLLMConfig(),

		Audio: AudioConfig{
			Volume: 50,
		},
	}
}

// DefaultLLMConfig returns the tutor defaults used by the hosted completion call.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		DefaultProvider: "", // Auto-detect based on available keys
		DefaultModel:    "openai/gpt-4o",
		Temperature:     0.7,
		MaxTokens:       2000,
	}
}

// DefaultPlayers are tried in order when no audio player is configured.
var DefaultPlayers = []string{"mpv", "ffplay", "afplay"}
