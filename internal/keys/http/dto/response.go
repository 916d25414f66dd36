package dto

// StoreAPIKeyResponse is returned after a successful store or delete.
type StoreAPIKeyResponse struct {
	Success bool `json:"success"`
}

// GetAPIKeyResponse carries the decrypted credential back to the caller.
type GetAPIKeyResponse struct {
	APIKey string `json:"apiKey"`
}
