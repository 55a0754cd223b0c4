package session

// Persister receives every appended turn so a collaborator layer can
// write conversations to durable storage. The session store itself is
// purely in-memory.
type Persister interface {
	SaveTurn(sessionID string, turn Turn)
}

// NopPersister discards turns. It is the default.
type NopPersister struct{}

func (NopPersister) SaveTurn(string, Turn) {}
