package immich

import "context"

// ClientDiagnostics holds the information from the call to [Diagnostics].
type ClientDiagnostics struct {
	RemoteConfigured      bool
	PersonNamesConfigured bool
	PersonNamesCached     int
	RemoteConnectedError  error
}

// Diagnostics reports how the client is configured and checks if the remote is connected.
func (c *Client) Diagnostics(ctx context.Context) ClientDiagnostics {
	diagnostics := ClientDiagnostics{}
	_, noop := c.remoteClient.(noopClient)
	diagnostics.RemoteConfigured = !noop
	diagnostics.PersonNamesConfigured = (c.names != nil)
	if c.names != nil {
		diagnostics.PersonNamesCached = c.names.Len()
	}
	diagnostics.RemoteConnectedError = c.IsConnected(ctx)

	return diagnostics
}
