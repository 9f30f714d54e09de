package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/domain"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/service"
)

type flowRequest struct {
	PumpID     int64   `json:"pump_id"`
	Flow       float64 `json:"flow"`
	Unit       string  `json:"unit"`
	MeasuredAt string  `json:"measured_at"`
}

// RegisterWater mounts the flow and reservoir routes.
func RegisterWater(app *fiber.App, svc *service.Water) {
	flows := app.Group("/api/flows")
	flows.Get("/", func(c *fiber.Ctx) error {
		items, err := svc.Flows.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(items)
	})
	flows.Post("/", func(c *fiber.Ctx) error {
		var req flowRequest
		if err := parseBody(c, &req); err != nil {
			return err
		}
		if req.PumpID <= 0 {
			return fmt.Errorf("%w: pump_id is required", domain.ErrValidation)
		}
		at, err := optionalTime(req.MeasuredAt)
		if err != nil {
			return err
		}
		f, err := svc.Flows.Record(c.UserContext(), req.PumpID, req.Flow, req.Unit, at)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(f)
	})
	flows.Get("/period", func(c *fiber.Ctx) error {
		var pumpID *int64
		if raw := c.Query("pumpId"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: invalid pumpId %q", domain.ErrValidation, raw)
			}
			pumpID = &id
		}
		from, to, err := queryRange(c)
		if err != nil {
			return err
		}
		items, err := svc.Flows.ListBetween(c.UserContext(), pumpID, from, to)
		if err != nil {
			return err
		}
		return c.JSON(items)
	})
	flows.Get("/check-energy/:pumpId", func(c *fiber.Ctx) error {
		id, err := paramID(c, "pumpId")
		if err != nil {
			return err
		}
		ok, err := svc.Flows.CheckEnergy(c.UserContext(), id)
		if err != nil {
			log.Error().Err(err).Int64("pump_id", id).Msg("energy check failed")
			return c.Status(fiber.StatusServiceUnavailable).JSON(false)
		}
		return c.JSON(ok)
	})
	flows.Get("/pump/:pumpId", func(c *fiber.Ctx) error {
		id, err := paramID(c, "pumpId")
		if err != nil {
			return err
		}
		items, err := svc.Flows.ListByPump(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(items)
	})
	flows.Get("/pump/:pumpId/average", func(c *fiber.Ctx) error {
		id, err := paramID(c, "pumpId")
		if err != nil {
			return err
		}
		avg, err := svc.Flows.Average(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(avg)
	})
	flows.Get("/pump/:pumpId/total", func(c *fiber.Ctx) error {
		id, err := paramID(c, "pumpId")
		if err != nil {
			return err
		}
		from, to, err := queryRange(c)
		if err != nil {
			return err
		}
		total, err := svc.Flows.TotalBetween(c.UserContext(), id, from, to)
		if err != nil {
			return err
		}
		return c.JSON(total)
	})
	flows.Get("/:id", func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return err
		}
		f, err := svc.Flows.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(f)
	})
	flows.Delete("/:id", func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.Flows.Delete(c.UserContext(), id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	res := app.Group("/api/reservoirs")
	res.Post("/", func(c *fiber.Ctx) error {
		var r domain.Reservoir
		if err := parseBody(c, &r); err != nil {
			return err
		}
		created, err := svc.Reservoirs.Create(c.UserContext(), r)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})
	res.Get("/", func(c *fiber.Ctx) error {
		items, err := svc.Reservoirs.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(items)
	})
	res.Get("/alerts", func(c *fiber.Ctx) error {
		items, err := svc.Reservoirs.ListInAlert(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(items)
	})
	res.Get("/location/:location", func(c *fiber.Ctx) error {
		items, err := svc.Reservoirs.ListByLocation(c.UserContext(), c.Params("location"))
		if err != nil {
			return err
		}
		return c.JSON(items)
	})
	res.Get("/:id", func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return err
		}
		r, err := svc.Reservoirs.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(r)
	})
	res.Get("/:id/fill-level", func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return err
		}
		lvl, err := svc.Reservoirs.FillLevel(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(lvl)
	})
	res.Put("/:id", func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return err
		}
		var r domain.Reservoir
		if err := parseBody(c, &r); err != nil {
			return err
		}
		updated, err := svc.Reservoirs.Update(c.UserContext(), id, r)
		if err != nil {
			return err
		}
		return c.JSON(updated)
	})
	res.Put("/:id/volume", func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return err
		}
		volume, err := paramFloat(c.Query("volume"), "volume")
		if err != nil {
			return err
		}
		r, err := svc.Reservoirs.UpdateVolume(c.UserContext(), id, volume)
		if err != nil {
			return err
		}
		return c.JSON(r)
	})
	res.Delete("/:id", func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.Reservoirs.Delete(c.UserContext(), id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
