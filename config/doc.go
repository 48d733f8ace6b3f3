// Package config loads todokit settings from config.yml, .env files and the
// environment.
//
// LoadConfig is generic over the target struct; Load fills a Settings,
// applies defaults and validates it:
//
//	settings, err := config.Load("todoist-smoke")
//	if err != nil {
//	    return err // MISSING_CONFIGURATION when API_BASE_URL is unset
//	}
//
// Environment variables are bound by splitting on underscores, so
// API_BASE_URL fills api.base_url and CLIENT_MAX_RETRIES fills
// client.max_retries.
package config
