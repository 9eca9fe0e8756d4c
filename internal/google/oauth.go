package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

const (
	credentialsFile = "credentials.json"
)

// GetOAuthConfigForAuthFlow is used by the auth command to get the config for the web flow.
func GetOAuthConfigForAuthFlow(clientID, clientSecret string) (*oauth2.Config, error) {
	return getOAuthConfig(clientID, clientSecret)
}

// getOAuthConfig reads credentials and returns an OAuth2 config.
// It prioritizes environment variables over a local credentials.json file.
func getOAuthConfig(clientID, clientSecret string) (*oauth2.Config, error) {
	if clientID != "" && clientSecret != "" {
		return &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
			Scopes:       []string{calendar.CalendarReadonlyScope},
			Endpoint:     google.Endpoint,
		}, nil
	}

	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		if _, ok := err.(*fs.PathError); ok {
			return nil, fmt.Errorf("credentials.json not found. Please provide GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET env vars or place credentials.json in the root directory")
		}
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	config.RedirectURL = "urn:ietf:wg:oauth:2.0:oob" // For desktop app flow
	return config, nil
}

// TokenFromWeb is called by the auth flow to retrieve a token.
func TokenFromWeb(config *oauth2.Config, authCode string) (*oauth2.Token, error) {
	return config.Exchange(context.Background(), authCode)
}

// SaveToken saves a token to a file path.
func SaveToken(path string, token *oauth2.Token) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create token file: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// tokenFromFile retrieves a token from a local file.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

// GetTokenAccounts lists the account names that have a saved token file.
func GetTokenAccounts() ([]string, error) {
	files, err := os.ReadDir(".")
	if err != nil {
		return nil, err
	}

	var accounts []string
	for _, file := range files {
		if strings.HasPrefix(file.Name(), "token-") && strings.HasSuffix(file.Name(), ".json") {
			accountName := strings.TrimSuffix(strings.TrimPrefix(file.Name(), "token-"), ".json")
			accounts = append(accounts, accountName)
		}
	}
	return accounts, nil
}
