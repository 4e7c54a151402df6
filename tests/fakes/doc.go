// Package fakes provides test doubles for passlaunch interfaces.
//
// Fakes are manually implemented (not generated) to provide precise control
// over test behavior.
//
// Usage:
//
//	host := fakes.NewFakeHost(config.DefaultSettings())
//	plugin := launcher.New(host, launcher.Options{Executor: mock, Clock: fakeClock})
//	require.NoError(t, plugin.OnStart(ctx))
//	// Inspect host.Catalog, host.Suggestions, host.Errors...
package fakes
