package integration

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TokenGrant is the result of an OAuth token exchange or refresh
type TokenGrant struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int
	Scope        string
	UserID       int64
}

// MarketplaceOrderItem is one line of a marketplace order
type MarketplaceOrderItem struct {
	ItemID    string
	Title     string
	Quantity  int
	UnitPrice decimal.Decimal
}

// MarketplaceOrder is the order detail fetched from the marketplace after
// an orders-topic webhook notification
type MarketplaceOrder struct {
	ID            int64
	Status        string
	TotalAmount   decimal.Decimal
	BuyerNickname string
	CreatedAt     time.Time
	Items         []MarketplaceOrderItem
}

// MarketplaceClient talks to the marketplace REST API
type MarketplaceClient interface {
	// ExchangeCode exchanges an authorization code for tokens
	ExchangeCode(ctx context.Context, code, redirectURI string) (*TokenGrant, error)
	// RefreshGrant exchanges a refresh token for fresh tokens
	RefreshGrant(ctx context.Context, refreshToken string) (*TokenGrant, error)
	// GetOrder fetches an order by its notification resource path
	// (e.g. "/orders/2000003508419013"). Returns ErrUnauthorized when the
	// access token is rejected.
	GetOrder(ctx context.Context, accessToken, resource string) (*MarketplaceOrder, error)
}
