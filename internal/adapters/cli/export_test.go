package cli

// SetClientFactory swaps the daemon client constructor and returns a restore func
func SetClientFactory(f func(socket string) (DaemonClient, error)) func() {
	previous := clientFactory
	clientFactory = f
	return func() { clientFactory = previous }
}
