package http

import "regexp"

var secretParamPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(key)=[^&"\s]+`),
	regexp.MustCompile(`(apiKey)=[^&"\s]+`),
	regexp.MustCompile(`(api_key)=[^&"\s]+`),
	regexp.MustCompile(`(token)=[^&"\s]+`),
	regexp.MustCompile(`(access_token)=[^&"\s]+`),
}

// RedactURLSecrets redacts API keys and other secrets from URLs embedded in
// error messages, so that query parameters carrying credentials never reach
// the logs.
func RedactURLSecrets(text string) string {
	if text == "" {
		return text
	}
	for _, re := range secretParamPatterns {
		text = re.ReplaceAllString(text, "$1=[REDACTED]")
	}
	return text
}
