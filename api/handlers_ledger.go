package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/paw-chain/zkmarket/x/shared/txn"
)

// maxEventsPage bounds a single events response.
const maxEventsPage = 1000

// handleCollateralParams returns collateral parameters and totals
func (s *Server) handleCollateralParams(c *gin.Context) {
	var res CollateralParamsResponse
	err := s.app.Query(c.Request.Context(), func(ctx txn.Context) error {
		params, err := s.app.CollateralKeeper.GetParams(ctx)
		if err != nil {
			return err
		}
		total, err := s.app.CollateralKeeper.TotalStaked(ctx)
		if err != nil {
			return err
		}
		res = CollateralParamsResponse{
			Params:        params,
			TotalStaked:   total,
			LockedSlashed: s.app.CollateralKeeper.GetLockedSlashed(ctx),
		}
		return nil
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// handleProviders lists provider records
func (s *Server) handleProviders(c *gin.Context) {
	pageReq, err := PageRequest(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	res := ProvidersResponse{Providers: []ProviderResponse{}}
	err = s.app.Query(c.Request.Context(), func(ctx txn.Context) error {
		providers, pageRes, err := s.app.CollateralKeeper.Providers(ctx, pageReq)
		if err != nil {
			return err
		}
		for _, p := range providers {
			res.Providers = append(res.Providers, ProviderResponse{ProviderAccount: p, SuccessRate: p.SuccessRate().String()})
		}
		res.Total = pageRes.Total
		res.NextKey = pageRes.NextKey
		return nil
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// handleProvider returns one provider record. Providers that never
// staked report a zero record with exists=false.
func (s *Server) handleProvider(c *gin.Context) {
	addr, err := ValidateAddress("address", c.Param("address"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	var res ProviderResponse
	err = s.app.Query(c.Request.Context(), func(ctx txn.Context) error {
		p, err := s.app.CollateralKeeper.GetInfo(ctx, addr)
		if err != nil {
			return err
		}
		p.Address = addr.String()
		res = ProviderResponse{ProviderAccount: p, SuccessRate: p.SuccessRate().String()}
		return nil
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// handleBalances returns every balance held by an account
func (s *Server) handleBalances(c *gin.Context) {
	addr, err := ValidateAddress("address", c.Param("address"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	var res []BalanceResponse
	err = s.app.Query(c.Request.Context(), func(ctx txn.Context) error {
		res = []BalanceResponse{}
		for _, coin := range s.app.TokenKeeper.GetAllBalances(ctx, addr) {
			res = append(res, BalanceResponse{Address: addr.String(), Denom: coin.Denom, Amount: coin.Amount})
		}
		return nil
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balances": res})
}

// handleBalance returns an account balance in one denom
func (s *Server) handleBalance(c *gin.Context) {
	addr, err := ValidateAddress("address", c.Param("address"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	denom := strings.TrimSpace(c.Param("denom"))
	if err := ValidateDenom(denom); err != nil {
		s.respondError(c, err)
		return
	}

	var res BalanceResponse
	err = s.app.Query(c.Request.Context(), func(ctx txn.Context) error {
		res = BalanceResponse{
			Address: addr.String(),
			Denom:   denom,
			Amount:  s.app.TokenKeeper.BalanceOf(ctx, denom, addr),
		}
		return nil
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// handleSupply returns the total minted supply of a denom
func (s *Server) handleSupply(c *gin.Context) {
	denom := strings.TrimSpace(c.Param("denom"))
	if err := ValidateDenom(denom); err != nil {
		s.respondError(c, err)
		return
	}

	var res gin.H
	err := s.app.Query(c.Request.Context(), func(ctx txn.Context) error {
		res = gin.H{"denom": denom, "amount": s.app.TokenKeeper.TotalSupply(ctx, denom)}
		return nil
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// handleRoles lists every role grant
func (s *Server) handleRoles(c *gin.Context) {
	var res RolesResponse
	err := s.app.Query(c.Request.Context(), func(ctx txn.Context) error {
		res.Grants = s.app.AccessKeeper.Grants(ctx)
		return nil
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// handleEvents returns persisted events after a sequence number,
// optionally filtered by event type.
func (s *Server) handleEvents(c *gin.Context) {
	after, err := ValidateUint("after", c.Query("after"), 0)
	if err != nil {
		s.respondError(c, err)
		return
	}
	limit, err := ValidateUint("limit", c.Query("limit"), DefaultPageLimit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if limit == 0 || limit > maxEventsPage {
		limit = maxEventsPage
	}
	eventType := c.Query("type")

	ctx := c.Request.Context()
	res := EventsResponse{Events: []txn.EventRecord{}}
	err = s.app.Executor.IterateEvents(ctx, after, func(rec txn.EventRecord) bool {
		if eventType != "" && rec.Type != eventType {
			return false
		}
		res.Events = append(res.Events, rec)
		return uint64(len(res.Events)) >= limit
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	if res.LastSeq, err = s.app.Executor.LastEventSeq(ctx); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
