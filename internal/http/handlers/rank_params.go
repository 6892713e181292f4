package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/iconsult/match-backend/internal/matching"
	"github.com/iconsult/match-backend/internal/service"
	"github.com/iconsult/match-backend/internal/validation"
)

// parseRankParams разбирает общие query-параметры выдачи.
// Невалидные значения отклоняются, а не приводятся к дефолтам.
func parseRankParams(c *gin.Context) (service.RankParams, error) {
	params := service.RankParams{
		Query:        strings.TrimSpace(c.Query("q")),
		City:         strings.TrimSpace(c.Query("city")),
		Country:      strings.TrimSpace(c.Query("country")),
		ContractType: strings.TrimSpace(c.Query("contract_type")),
	}

	switch c.DefaultQuery("sort_by", "relevance") {
	case "relevance":
		params.Mode = matching.ModeRelevance
	case "name":
		params.Mode = matching.ModeManual
	default:
		return params, errors.New("sort_by должен быть relevance или name")
	}

	if raw := c.Query("skills"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := uuid.Parse(strings.TrimSpace(part))
			if err != nil {
				return params, errors.New("skills содержит невалидный uuid")
			}
			params.SkillIDs = append(params.SkillIDs, id)
		}
	}

	if raw := c.Query("max_km"); raw != "" {
		km, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return params, errors.New("max_km должен быть числом")
		}
		if err := validation.ValidateRadiusKm(&km); err != nil {
			return params, err
		}
		params.MaxKm = &km
	}

	if raw := c.Query("listing_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return params, errors.New("listing_id содержит невалидный uuid")
		}
		params.ListingID = &id
	}

	return params, nil
}
