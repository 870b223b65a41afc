package postgrest

import (
	"net/http"
)

type AuthEngine interface {
	GetApiKey() string
	SetApiKey(request *http.Request)
}

// ServiceKeyAuth sends the key both as the gateway apikey and as the bearer token.
type ServiceKeyAuth struct {
	apiKey string
}

func (b *ServiceKeyAuth) GetApiKey() string {
	return b.apiKey
}

func (b *ServiceKeyAuth) SetApiKey(request *http.Request) {
	request.Header.Set("apikey", b.apiKey)
	request.Header.Set("Authorization", "Bearer "+b.apiKey)
}

func NewServiceKeyAuth(apiKey string) AuthEngine {
	if apiKey == "" {
		return nil
	}
	return &ServiceKeyAuth{apiKey: apiKey}
}
