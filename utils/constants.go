package utils

import "drutaseva/config"

// AuthCachePrefix keys cached auth token hashes by user ID.
const AuthCachePrefix = "auth:"

// Currency is the default billing currency.
const Currency = "INR"

// EmergencyPhone returns the manual fallback number included on failure responses.
// A software failure must never leave a caller without a way to reach help.
func EmergencyPhone() string {
	if config.AppConfig.EmergencyPhone != "" {
		return config.AppConfig.EmergencyPhone
	}
	return "123-456-7890"
}
