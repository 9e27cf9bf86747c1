package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api/v1")
	rateLimited := s.middleware.RateLimit.Handler()

	// Public surface. The limiter keys these by client IP.
	api.POST("/tenants", s.createTenant, rateLimited)
	auth := api.Group("/auth")
	auth.POST("/login", s.login, rateLimited)
	auth.POST("/password-reset", s.requestPasswordReset, rateLimited)

	// Machine-to-machine surface: provider webhooks and the scheduled job
	// trigger authenticate by signature and shared secret respectively.
	api.POST("/webhooks/billing", s.billingWebhook, rateLimited)
	api.POST("/jobs/dunning-run", s.triggerDunningRun)

	// Authenticated surface. The scope middleware pins every data access
	// to the token's tenant; the limiter keys by tenant id.
	protected := api.Group("", s.middleware.JWT.RequireJWT(), rateLimited, s.middleware.Scope.RequireScope())

	protected.GET("/tenants/me", s.getOwnTenant)
	protected.PUT("/tenants/me/dunning-settings", s.updateDunningSettings, s.middleware.JWT.RequireAdmin())
	protected.GET("/tenants/me/export", s.exportTenantData, s.middleware.JWT.RequireAdmin())

	protected.POST("/properties", s.createProperty)
	protected.GET("/properties", s.listProperties)
	protected.POST("/units", s.createUnit)
	protected.GET("/units", s.listUnits)
	protected.POST("/occupants", s.createOccupant)
	protected.GET("/occupants", s.listOccupants)

	protected.POST("/leases", s.createLease)
	protected.GET("/leases", s.listLeases)
	protected.PUT("/leases/:id/end", s.endLease)

	protected.POST("/receivables", s.createReceivable)
	protected.GET("/receivables", s.listReceivables)
	protected.POST("/payments", s.createPayment)

	protected.GET("/dunning/proposals", s.listDunningProposals)
	protected.POST("/dunning/records", s.issueDunningRecord)
}
