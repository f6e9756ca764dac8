package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shaftlab/shaftdb/internal/catalog"
	"github.com/shaftlab/shaftdb/internal/compare"
	"github.com/shaftlab/shaftdb/internal/types"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// shaftJSON adds the derived fields to a record.
type shaftJSON struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	*types.ShaftSpec
}

func toJSON(specs []*types.ShaftSpec) []shaftJSON {
	out := make([]shaftJSON, len(specs))
	for i, spec := range specs {
		out[i] = shaftJSON{ID: spec.ID(), DisplayName: spec.DisplayName(), ShaftSpec: spec}
	}
	return out
}

func (s *Server) listShafts(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.respondList(c, filter)
}

func (s *Server) searchShafts(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}
	filter := types.Filter{SearchText: q}
	filter.Limit, filter.Offset = parsePaging(c)
	s.respondList(c, filter)
}

// respondList runs the query unpaged for the total, then pages.
func (s *Server) respondList(c *gin.Context, filter types.Filter) {
	page := types.Filter{Limit: filter.Limit, Offset: filter.Offset}
	filter.Limit, filter.Offset = 0, 0

	results, err := s.store.Query(c.Request.Context(), filter)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total":  len(results),
		"limit":  page.Limit,
		"offset": page.Offset,
		"items":  toJSON(page.Page(results)),
	})
}

func (s *Server) getShaft(c *gin.Context) {
	spec, err := s.store.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, shaftJSON{ID: spec.ID(), DisplayName: spec.DisplayName(), ShaftSpec: spec})
}

func (s *Server) compareShafts(c *gin.Context) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be {\"ids\": [...]}"})
		return
	}

	result, err := compare.ByIDs(c.Request.Context(), s.store, req.IDs...)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) listManufacturers(c *gin.Context) {
	manufacturers, err := s.store.Manufacturers(c.Request.Context())
	if err != nil {
		s.renderError(c, err)
		return
	}
	if manufacturers == nil {
		manufacturers = []string{}
	}
	c.JSON(http.StatusOK, manufacturers)
}

func (s *Server) stats(c *gin.Context) {
	stats, err := s.store.Stats(c.Request.Context())
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) progression(c *gin.Context) {
	manufacturer := strings.TrimSpace(c.Query("manufacturer"))
	model := strings.TrimSpace(c.Query("model"))
	if manufacturer == "" || model == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "manufacturer and model are required"})
		return
	}
	generation := strings.TrimSpace(c.Query("generation"))

	var clubType types.ClubType
	if raw := c.Query("club_type"); raw != "" {
		ct, err := types.ParseClubType(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		clubType = ct
	}

	points, err := compare.WeightProgression(c.Request.Context(), s.store, manufacturer, model, generation, clubType)
	if err != nil {
		s.renderError(c, err)
		return
	}
	if points == nil {
		points = []compare.ProgressionPoint{}
	}
	c.JSON(http.StatusOK, gin.H{
		"manufacturer": manufacturer,
		"model":        model,
		"generation":   generation,
		"points":       points,
	})
}

// renderError maps store and comparison errors onto status codes. Anything
// unexpected is logged and returned as an opaque 500.
func (s *Server) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, compare.ErrInvalidComparisonSize):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		s.logger.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// parseFilter binds query params onto a catalog filter. Invalid values are
// rejected here so handlers can treat parse errors uniformly as 400s.
func parseFilter(c *gin.Context) (types.Filter, error) {
	var filter types.Filter

	if v := strings.TrimSpace(c.Query("manufacturer")); v != "" {
		filter.Manufacturer = &v
	}
	if v := strings.TrimSpace(c.Query("model")); v != "" {
		filter.Model = &v
	}
	// generation= (present but empty) selects records without a generation.
	if v, ok := c.GetQuery("generation"); ok {
		gen := strings.TrimSpace(v)
		filter.Generation = &gen
	}
	if v := strings.TrimSpace(c.Query("material")); v != "" {
		filter.Material = &v
	}

	for _, raw := range queryList(c, "club_type") {
		ct, err := types.ParseClubType(raw)
		if err != nil {
			return filter, err
		}
		filter.ClubTypes = append(filter.ClubTypes, ct)
	}
	for _, raw := range queryList(c, "flex") {
		fx, err := types.ParseFlex(raw)
		if err != nil {
			return filter, err
		}
		filter.Flexes = append(filter.Flexes, fx)
	}
	for _, raw := range queryList(c, "launch") {
		p, err := types.ParseProfile(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid launch: %q", raw)
		}
		filter.Launches = append(filter.Launches, p)
	}
	for _, raw := range queryList(c, "spin") {
		p, err := types.ParseProfile(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid spin: %q", raw)
		}
		filter.Spins = append(filter.Spins, p)
	}
	for _, raw := range queryList(c, "kickpoint") {
		p, err := types.ParseProfile(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid kickpoint: %q", raw)
		}
		filter.Kickpoints = append(filter.Kickpoints, p)
	}
	for _, raw := range queryList(c, "tip_stiffness") {
		ts, err := types.ParseTipStiffness(raw)
		if err != nil {
			return filter, err
		}
		filter.TipStiffnesses = append(filter.TipStiffnesses, ts)
	}

	includeMissing := c.Query("include_missing") == "true"
	ranges := []struct {
		param string
		dest  *types.FloatRange
	}{
		{"weight", &filter.Weight},
		{"torque", &filter.Torque},
		{"length", &filter.Length},
		{"butt_diameter", &filter.ButtDiameter},
		{"tip_diameter", &filter.TipDiameter},
		{"msrp", &filter.MSRP},
	}
	for _, r := range ranges {
		if err := parseRange(c, r.param, r.dest, includeMissing); err != nil {
			return filter, err
		}
	}

	filter.SearchText = strings.TrimSpace(c.Query("q"))
	filter.Limit, filter.Offset = parsePaging(c)

	if err := filter.Validate(); err != nil {
		return filter, err
	}
	return filter, nil
}

// queryList accepts both repeated params and comma-separated values.
func queryList(c *gin.Context, key string) []string {
	values := c.QueryArray(key)
	if len(values) == 1 && strings.Contains(values[0], ",") {
		values = strings.Split(values[0], ",")
	}
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseRange(c *gin.Context, param string, dest *types.FloatRange, includeMissing bool) error {
	min, err := parseFloatQuery(c, param+"_min")
	if err != nil {
		return err
	}
	max, err := parseFloatQuery(c, param+"_max")
	if err != nil {
		return err
	}
	dest.Min, dest.Max = min, max
	if !dest.IsZero() {
		dest.IncludeMissing = includeMissing
	}
	return nil
}

func parseFloatQuery(c *gin.Context, key string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number (got %q)", key, raw)
	}
	return &v, nil
}

func parsePaging(c *gin.Context) (limit, offset int) {
	limit = parseIntQuery(c, "limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset = parseIntQuery(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func parseIntQuery(c *gin.Context, key string, def int) int {
	if raw := strings.TrimSpace(c.Query(key)); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	return def
}
