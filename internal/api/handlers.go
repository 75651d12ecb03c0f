package api

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/adify/rewards/internal/config"
	"github.com/adify/rewards/internal/domain/pools"
)

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Version  string `json:"version"`
}

func (s *Server) health(c *fiber.Ctx) error {
	resp := healthResponse{Status: "ok", Database: "ok", Version: s.version}
	if s.deps.DB != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()
		if err := s.deps.DB.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Database = err.Error()
			return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
		}
	}
	return c.JSON(resp)
}

func (s *Server) listPools(c *fiber.Ctx) error {
	month := c.Query("month")
	if month != "" {
		if _, _, err := pools.MonthBounds(month); err != nil {
			return err
		}
	}
	list, err := s.deps.Pools.ListPools(c.UserContext(), month)
	if err != nil {
		return err
	}
	return sendSuccess(c, fiber.StatusOK, list, "")
}

func (s *Server) poolsByCountry(c *fiber.Ctx) error {
	country := strings.ToUpper(c.Params("country"))
	if len(country) != 2 {
		return badRequest("country must be a two letter ISO code")
	}
	list, err := s.deps.Pools.ListPoolsByCountry(c.UserContext(), country)
	if err != nil {
		return err
	}
	return sendSuccess(c, fiber.StatusOK, list, "")
}

type initializeRequest struct {
	Month string `json:"month"`
}

func (s *Server) initializePools(c *fiber.Ctx) error {
	var req initializeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest("invalid request body")
		}
	}
	if req.Month == "" {
		req.Month = pools.PreviousMonth(s.now())
	}

	result, err := s.deps.Builder.BuildMonthlyPools(c.UserContext(), req.Month)
	if err != nil {
		return err
	}
	return sendSuccess(c, fiber.StatusCreated, result, "revenue pools initialized")
}

func (s *Server) updateRates(c *fiber.Ctx) error {
	stored, err := s.deps.Refresher.RunOnce(c.UserContext())
	if err != nil {
		return err
	}
	return sendSuccess(c, fiber.StatusOK, fiber.Map{"updated": stored}, "coin valuations updated")
}

func (s *Server) distributePool(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return badRequest("pool id must be a positive integer")
	}

	result, err := s.deps.Distributor.Distribute(c.UserContext(), id)
	if errors.Is(err, pools.ErrDistributionIncomplete) {
		return sendSuccess(c, fiber.StatusAccepted, result, "distribution paused, run again to resume")
	}
	if err != nil {
		return err
	}
	return sendSuccess(c, fiber.StatusOK, result, "revenue pool distributed")
}

func (s *Server) latestValuation(c *fiber.Ctx) error {
	country := strings.ToUpper(c.Params("country"))
	if len(country) != 2 {
		return badRequest("country must be a two letter ISO code")
	}
	v, err := s.deps.Valuations.Latest(c.UserContext(), country, s.now())
	if err != nil {
		return err
	}
	return sendSuccess(c, fiber.StatusOK, v, "")
}

func (s *Server) listValuations(c *fiber.Ctx) error {
	list, err := s.deps.Valuations.All(c.UserContext())
	if err != nil {
		return err
	}
	return sendSuccess(c, fiber.StatusOK, list, "")
}

type exchangeRateRequest struct {
	Base          string          `json:"base"`
	Target        string          `json:"target"`
	Rate          decimal.Decimal `json:"rate"`
	EffectiveDate string          `json:"effectiveDate"`
}

func (s *Server) recordExchangeRate(c *fiber.Ctx) error {
	var req exchangeRateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request body")
	}
	if req.Base == "" {
		req.Base = config.SettlementCurrency
	}

	var effective time.Time
	if req.EffectiveDate != "" {
		t, err := time.Parse(time.DateOnly, req.EffectiveDate)
		if err != nil {
			return badRequest("effectiveDate must be YYYY-MM-DD")
		}
		effective = t
	}

	rate, err := s.deps.Rates.RecordRate(c.UserContext(), req.Base, req.Target, req.Rate, effective)
	if err != nil {
		return err
	}
	return sendSuccess(c, fiber.StatusCreated, rate, "exchange rate recorded")
}
