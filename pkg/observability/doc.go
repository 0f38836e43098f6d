/*
Package observability turns the bot's lifecycle hooks into structured logs and
Prometheus metrics.

Hook sets compose with Combine, so a host can log and count the same events:

	m := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := observability.Combine(m.Hooks(), observability.LoggingHooks(logger))
	bot, _ := careerbot.New(careerbot.WithLifecycleHooks(hooks))
*/
package observability
