// Package api serves the filtered dataset views as read-only JSON over HTTP.
package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/verte-zerg/hitdash/internal/dataset"
	"github.com/verte-zerg/hitdash/internal/filter"
	"github.com/verte-zerg/hitdash/internal/generator"
	"github.com/verte-zerg/hitdash/internal/model"
	"github.com/verte-zerg/hitdash/internal/stats"
)

// Server answers dataset queries from a shared cache.
type Server struct {
	cache  *dataset.Cache
	params generator.Params
	bins   int
}

// NewServer builds a server that always reads the dataset generated from params.
func NewServer(cache *dataset.Cache, params generator.Params, bins int) *Server {
	if bins <= 0 || bins > stats.MaxBins {
		bins = stats.DefaultBins
	}
	return &Server{cache: cache, params: params, bins: bins}
}

// Router registers every endpoint. A nil logOut disables request logging.
func (s *Server) Router(logOut io.Writer) *gin.Engine {
	r := gin.New()
	if logOut != nil {
		r.Use(gin.LoggerWithWriter(logOut))
	}
	r.Use(gin.Recovery())

	r.GET("/health", s.health)
	group := r.Group("/api")
	{
		group.GET("/overview", s.overview)
		group.GET("/songs", s.songs)
		group.GET("/describe", s.describe)
		group.GET("/trends", s.trends)
		group.GET("/histogram", s.histogram)
		group.GET("/genres", s.genres)
		group.GET("/artists", s.artists)
		group.GET("/report", s.report)
	}
	return r
}

func (s *Server) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// view loads the dataset and applies the filter from the query string.
// It writes the error response itself and reports false on failure.
func (s *Server) view(ctx *gin.Context) (*dataset.Dataset, model.Filter, []model.Song, bool) {
	ds, err := s.cache.Get(s.params)
	if err != nil {
		errorResponse(ctx, http.StatusInternalServerError, fmt.Errorf("failed to build dataset: %w", err))
		return nil, model.Filter{}, nil, false
	}
	f, err := parseFilter(ctx, ds)
	if err != nil {
		errorResponse(ctx, http.StatusBadRequest, err)
		return nil, model.Filter{}, nil, false
	}
	return ds, f, filter.Apply(ds.View(), f), true
}

func parseFilter(ctx *gin.Context, ds *dataset.Dataset) (model.Filter, error) {
	f := model.Filter{Genre: model.Wildcard, Artist: model.Wildcard}
	if lo, hi, ok := ds.YearSpan(); ok {
		f.YearMin, f.YearMax = lo, hi
	}
	var err error
	if f.YearMin, err = intQuery(ctx, "year_min", f.YearMin); err != nil {
		return model.Filter{}, err
	}
	if f.YearMax, err = intQuery(ctx, "year_max", f.YearMax); err != nil {
		return model.Filter{}, err
	}
	f.Genre = filter.Resolve(model.Selector(ctx.Query("genre")), ds.Genres())
	f.Artist = filter.Resolve(model.Selector(ctx.Query("artist")), ds.Artists())
	if err := filter.Check(f, ds.Genres(), ds.Artists()); err != nil {
		return model.Filter{}, err
	}
	return f, nil
}

func intQuery(ctx *gin.Context, name string, fallback int) (int, error) {
	raw, ok := ctx.GetQuery(name)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be an integer", name, raw)
	}
	return v, nil
}

func featureQuery(ctx *gin.Context) (model.Feature, error) {
	return model.ParseFeature(ctx.DefaultQuery("feature", string(model.FeatureBPM)))
}

func errorResponse(ctx *gin.Context, status int, err error) {
	ctx.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func (s *Server) overview(ctx *gin.Context) {
	ds, f, view, ok := s.view(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"filter":   f,
		"overview": stats.Summarize(view),
		"columns":  ds.Columns(),
	})
}

func (s *Server) songs(ctx *gin.Context) {
	_, f, view, ok := s.view(ctx)
	if !ok {
		return
	}
	limit, err := intQuery(ctx, "limit", stats.PreviewRows)
	if err != nil || limit < 0 {
		errorResponse(ctx, http.StatusBadRequest, fmt.Errorf("invalid limit %q: must be a non-negative integer", ctx.Query("limit")))
		return
	}
	if limit == 0 {
		limit = len(view)
	}
	ctx.JSON(http.StatusOK, gin.H{
		"filter": f,
		"total":  len(view),
		"songs":  stats.Preview(view, limit),
	})
}

func (s *Server) describe(ctx *gin.Context) {
	_, f, view, ok := s.view(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"filter":   f,
		"describe": stats.Describe(view),
	})
}

func (s *Server) trends(ctx *gin.Context) {
	_, f, view, ok := s.view(ctx)
	if !ok {
		return
	}
	yearly := stats.YearlyMeans(view)
	body := gin.H{
		"filter": f,
		"yearly": yearly,
	}
	if delta, ok := stats.TrendDeltas(yearly); ok {
		body["trend"] = delta
	}
	ctx.JSON(http.StatusOK, body)
}

func (s *Server) histogram(ctx *gin.Context) {
	_, f, view, ok := s.view(ctx)
	if !ok {
		return
	}
	feature, err := featureQuery(ctx)
	if err != nil {
		errorResponse(ctx, http.StatusBadRequest, err)
		return
	}
	bins, err := intQuery(ctx, "bins", s.bins)
	if err != nil || bins <= 0 || bins > stats.MaxBins {
		errorResponse(ctx, http.StatusBadRequest,
			fmt.Errorf("invalid bins %q: must be an integer between 1 and %d", ctx.Query("bins"), stats.MaxBins))
		return
	}
	summary, _ := stats.FeatureStats(view, feature)
	ctx.JSON(http.StatusOK, gin.H{
		"filter":  f,
		"feature": feature,
		"stats":   summary,
		"bins":    stats.Histogram(stats.FeatureValues(view, feature), bins),
	})
}

func (s *Server) genres(ctx *gin.Context) {
	_, f, view, ok := s.view(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"filter": f,
		"genres": stats.GenreCounts(view),
	})
}

func (s *Server) artists(ctx *gin.Context) {
	_, f, view, ok := s.view(ctx)
	if !ok {
		return
	}
	top, err := intQuery(ctx, "top", stats.LeaderboardSize)
	if err != nil || top < 0 {
		errorResponse(ctx, http.StatusBadRequest, fmt.Errorf("invalid top %q: must be a non-negative integer", ctx.Query("top")))
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"filter":  f,
		"artists": stats.TopArtists(stats.ArtistStats(view), top),
	})
}

func (s *Server) report(ctx *gin.Context) {
	ds, f, _, ok := s.view(ctx)
	if !ok {
		return
	}
	feature, err := featureQuery(ctx)
	if err != nil {
		errorResponse(ctx, http.StatusBadRequest, err)
		return
	}
	r, err := stats.BuildReport(ds, f, feature, s.bins)
	if err != nil {
		errorResponse(ctx, http.StatusBadRequest, err)
		return
	}
	ctx.JSON(http.StatusOK, r)
}
