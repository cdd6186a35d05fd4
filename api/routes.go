package api

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	v1 := s.router.Group("/v1")

	// Compute: jobs and escrow
	compute := v1.Group("/compute")
	{
		compute.GET("/params", s.handleComputeParams)
		compute.GET("/jobs", s.handleJobs)
		compute.GET("/jobs/:id", s.handleJob)
		compute.GET("/escrow", s.handleEscrowStats)
	}

	// Collateral: provider stake and reputation
	collateral := v1.Group("/collateral")
	{
		collateral.GET("/params", s.handleCollateralParams)
		collateral.GET("/providers", s.handleProviders)
		collateral.GET("/providers/:address", s.handleProvider)
	}

	// Token balances
	token := v1.Group("/token")
	{
		token.GET("/balances/:address", s.handleBalances)
		token.GET("/balances/:address/:denom", s.handleBalance)
		token.GET("/supply/:denom", s.handleSupply)
	}

	v1.GET("/access/roles", s.handleRoles)
	v1.GET("/events", s.handleEvents)
}
