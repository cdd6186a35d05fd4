package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paw-chain/zkmarket/x/compute/types"
	"github.com/paw-chain/zkmarket/x/shared/txn"
)

// handleComputeParams returns compute parameters and registered dependencies
func (s *Server) handleComputeParams(c *gin.Context) {
	var res *types.QueryParamsResponse
	err := s.app.Query(c.Request.Context(), func(ctx txn.Context) (err error) {
		res, err = s.compute.Params(ctx, &types.QueryParamsRequest{})
		return err
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// handleJob returns a single job by ID
func (s *Server) handleJob(c *gin.Context) {
	jobID, err := ValidateUint("id", c.Param("id"), 0)
	if err != nil {
		s.respondError(c, err)
		return
	}

	var res *types.QueryJobResponse
	err = s.app.Query(c.Request.Context(), func(ctx txn.Context) (err error) {
		res, err = s.compute.Job(ctx, &types.QueryJobRequest{JobID: jobID})
		return err
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// handleJobs lists jobs, optionally filtered by client or status
func (s *Server) handleJobs(c *gin.Context) {
	pageReq, err := PageRequest(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	req := &types.QueryJobsRequest{
		Status:     c.Query("status"),
		Client:     c.Query("client"),
		Pagination: pageReq,
	}

	var res *types.QueryJobsResponse
	err = s.app.Query(c.Request.Context(), func(ctx txn.Context) (err error) {
		res, err = s.compute.Jobs(ctx, req)
		return err
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// handleEscrowStats returns escrow accounting totals
func (s *Server) handleEscrowStats(c *gin.Context) {
	var res *types.QueryEscrowStatsResponse
	err := s.app.Query(c.Request.Context(), func(ctx txn.Context) (err error) {
		res, err = s.compute.EscrowStats(ctx, &types.QueryEscrowStatsRequest{})
		return err
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
