package config

// ServerConfig holds settings of the local fixture storefront
type ServerConfig struct {
	Port string
}

// LoadServerConfig loads fixture server configuration from environment variables
func LoadServerConfig(getenv func(string) string) ServerConfig {
	port := getenv("FIXTURE_PORT")
	if port == "" {
		port = "8080"
	}

	return ServerConfig{
		Port: port,
	}
}
