package database

import (
	"fmt"
	"os"

	"github.com/supabase-community/supabase-go"
)

// SupabaseClient wraps the Supabase REST client.
type SupabaseClient struct {
	Client *supabase.Client
}

// NewSupabaseClient builds a client from SUPABASE_URL and
// SUPABASE_SERVICE_KEY. The service key is required because the saved
// location tables are not exposed to anonymous access.
func NewSupabaseClient() (*SupabaseClient, error) {
	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseServiceKey := os.Getenv("SUPABASE_SERVICE_KEY")

	if supabaseURL == "" {
		return nil, fmt.Errorf("SUPABASE_URL environment variable is not set")
	}
	if supabaseServiceKey == "" {
		return nil, fmt.Errorf("SUPABASE_SERVICE_KEY environment variable is not set")
	}

	client, err := supabase.NewClient(supabaseURL, supabaseServiceKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Supabase client: %w", err)
	}

	return &SupabaseClient{
		Client: client,
	}, nil
}

// GetClient returns the underlying Supabase client.
func (sc *SupabaseClient) GetClient() *supabase.Client {
	return sc.Client
}

// HealthCheck verifies the client was initialized.
func (sc *SupabaseClient) HealthCheck() error {
	if sc.Client == nil {
		return fmt.Errorf("Supabase client is not initialized")
	}
	return nil
}
