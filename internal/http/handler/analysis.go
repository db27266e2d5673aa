package handler

import (
	"bytes"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"sp3clock/internal/clock"
	"sp3clock/internal/plot"
	"sp3clock/internal/service"
)

// analysisRequest is the POST /analyses body. Dates are YYYY-MM-DD.
type analysisRequest struct {
	Start      string   `json:"start"`
	End        string   `json:"end"`
	Satellites []string `json:"satellites"`
	Preset     string   `json:"preset"`
	Window     int      `json:"window"`
	Threshold  float64  `json:"threshold"`
	Unit       string   `json:"unit"`
	TauMode    string   `json:"tau_mode"`
	MaxTau     float64  `json:"max_tau"`
	Lag        int      `json:"lag"`
}

func (r analysisRequest) toService() (service.AnalysisRequest, *paramError) {
	start, err := time.Parse(time.DateOnly, r.Start)
	if err != nil {
		return service.AnalysisRequest{}, &paramError{"INVALID_RANGE", "start must be YYYY-MM-DD"}
	}
	end, err := time.Parse(time.DateOnly, r.End)
	if err != nil {
		return service.AnalysisRequest{}, &paramError{"INVALID_RANGE", "end must be YYYY-MM-DD"}
	}
	return service.AnalysisRequest{
		Start:      start,
		End:        end,
		Satellites: r.Satellites,
		Preset:     r.Preset,
		Window:     r.Window,
		Threshold:  r.Threshold,
		Unit:       r.Unit,
		TauMode:    r.TauMode,
		MaxTau:     r.MaxTau,
		Lag:        r.Lag,
	}, nil
}

// CreateAnalysis runs an analysis over stored products and saves the result.
//
//	@Summary	Run a clock analysis
//	@Tags		analyses
//	@Accept		json
//	@Produce	json
//	@Param		request	body		analysisRequest	true	"analysis parameters"
//	@Success	201		{object}	model.Analysis
//	@Failure	400		{object}	errorPayload
//	@Failure	422		{object}	errorPayload
//	@Router		/analyses [post]
func CreateAnalysis(analyses service.AnalysisService, reports service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body analysisRequest
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		req, perr := body.toService()
		if perr != nil {
			return perr.write(c)
		}

		res, err := analyses.Run(c.UserContext(), req)
		if err != nil {
			return serviceError(c, err, "analysis")
		}
		a, err := reports.Save(c.UserContext(), res)
		if err != nil {
			return writeInternal(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(a)
	}
}

// ListAnalyses returns saved analyses, newest first.
//
//	@Summary	List analyses
//	@Tags		analyses
//	@Produce	json
//	@Param		limit	query		int	false	"page size"	default(10)
//	@Param		offset	query		int	false	"offset"	default(0)
//	@Success	200		{object}	service.AnalysisListResult
//	@Router		/analyses [get]
func ListAnalyses(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, perr := pageParams(c)
		if perr != nil {
			return perr.write(c)
		}
		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeInternal(c, err)
		}
		return c.JSON(res)
	}
}

// GetAnalysis returns the analysis record with per-satellite summaries.
//
//	@Summary	Get an analysis
//	@Tags		analyses
//	@Produce	json
//	@Param		id	path		string	true	"analysis id"
//	@Success	200	{object}	model.Analysis
//	@Failure	404	{object}	errorPayload
//	@Router		/analyses/{id} [get]
func GetAnalysis(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, perr := idParam(c)
		if perr != nil {
			return perr.write(c)
		}
		a, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err, "analysis")
		}
		return c.JSON(a)
	}
}

// GetAnalysisResult streams the stored JSON result with every series.
//
//	@Summary	Download the full analysis result
//	@Tags		analyses
//	@Produce	json
//	@Param		id	path		string	true	"analysis id"
//	@Success	200	{object}	model.AnalysisResult
//	@Failure	404	{object}	errorPayload
//	@Router		/analyses/{id}/result [get]
func GetAnalysisResult(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, perr := idParam(c)
		if perr != nil {
			return perr.write(c)
		}
		rc, info, err := svc.OpenResult(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err, "analysis")
		}
		c.Type("json")
		if info.Size > 0 {
			return c.SendStream(rc, int(info.Size))
		}
		return c.SendStream(rc)
	}
}

// GetAnalysisPlot renders one chart of a saved result as PNG. The unit query
// parameter overrides the unit the analysis ran with.
//
//	@Summary	Plot an analysis
//	@Tags		analyses
//	@Produce	png
//	@Param		id		path	string	true	"analysis id"
//	@Param		kind	path	string	true	"detrended, dedrifted, frequency or adev"
//	@Param		unit	query	string	false	"s, us or ns"
//	@Success	200
//	@Failure	400	{object}	errorPayload
//	@Failure	404	{object}	errorPayload
//	@Router		/analyses/{id}/plots/{kind} [get]
func GetAnalysisPlot(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, perr := idParam(c)
		if perr != nil {
			return perr.write(c)
		}
		kind, err := plot.ParseKind(c.Params("kind"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_KIND", "plot kind must be detrended, dedrifted, frequency or adev")
		}

		res, err := svc.LoadResult(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err, "analysis")
		}
		unit, err := clock.ParseUnit(c.Query("unit", res.Analysis.Unit))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_UNIT", service.ErrInvalidUnit.Error())
		}

		var buf bytes.Buffer
		if err := plot.Render(&buf, res, kind, unit); err != nil {
			if errors.Is(err, plot.ErrNoData) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "no data for this plot")
			}
			return writeInternal(c, err)
		}
		c.Set(fiber.HeaderContentType, plot.ContentType)
		return c.Send(buf.Bytes())
	}
}

// DeleteAnalysis removes a saved analysis.
//
//	@Summary	Delete an analysis
//	@Tags		analyses
//	@Param		id	path	string	true	"analysis id"
//	@Success	204
//	@Failure	404	{object}	errorPayload
//	@Router		/analyses/{id} [delete]
func DeleteAnalysis(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, perr := idParam(c)
		if perr != nil {
			return perr.write(c)
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return serviceError(c, err, "analysis")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
