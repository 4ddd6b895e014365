package interfaces

import "github.com/bobmcallan/advisor/internal/models"

// SessionStore holds live chat sessions keyed by session id.
type SessionStore interface {
	Get(id string) (*models.ChatSession, bool)
	GetOrCreate(id string) *models.ChatSession
	Delete(id string)
	Count() int
}

// MarketCache persists fetched market data between runs. Read reports a
// miss through found=false, never an error.
type MarketCache interface {
	Read(key string, v any) (found bool, age int64, err error)
	Write(key string, v any) error
	WriteRaw(key string, data []byte) error
	Delete(key string) error
}
