package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/domain"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/service"
)

type pumpRequest struct {
	Reference      string  `json:"reference"`
	PowerKW        float64 `json:"power_kw"`
	Status         string  `json:"status"`
	CommissionedAt string  `json:"commissioned_at"`
}

func (r pumpRequest) pump() (domain.Pump, error) {
	p := domain.Pump{Reference: r.Reference, PowerKW: r.PowerKW}
	if r.Status != "" {
		st, err := domain.ParsePumpStatus(r.Status)
		if err != nil {
			return p, err
		}
		p.Status = st
	}
	at, err := optionalTime(r.CommissionedAt)
	if err != nil {
		return p, err
	}
	p.CommissionedAt = at
	return p, nil
}

type consumptionRequest struct {
	PumpID     int64   `json:"pump_id"`
	EnergyUsed float64 `json:"energy_used"`
	Duration   float64 `json:"duration"`
	MeasuredAt string  `json:"measured_at"`
	// {"pump":{"id":1}} is accepted as well as pump_id.
	Pump *struct {
		ID int64 `json:"id"`
	} `json:"pump"`
}

func (r consumptionRequest) pumpID() int64 {
	if r.PumpID == 0 && r.Pump != nil {
		return r.Pump.ID
	}
	return r.PumpID
}

// RegisterEnergy mounts the pump and consumption routes.
func RegisterEnergy(app *fiber.App, svc *service.Energy) {
	pumps := app.Group("/api/pumps")
	pumps.Post("/", createPump(svc.Pumps))
	pumps.Get("/", func(c *fiber.Ctx) error {
		items, err := svc.Pumps.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(items)
	})
	pumps.Get("/status/:status", func(c *fiber.Ctx) error {
		st, err := domain.ParsePumpStatus(c.Params("status"))
		if err != nil {
			return err
		}
		items, err := svc.Pumps.ListByStatus(c.UserContext(), st)
		if err != nil {
			return err
		}
		return c.JSON(items)
	})
	pumps.Get("/reference/:reference", func(c *fiber.Ctx) error {
		p, err := svc.Pumps.GetByReference(c.UserContext(), c.Params("reference"))
		if err != nil {
			return err
		}
		return c.JSON(p)
	})
	pumps.Get("/:id", func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return err
		}
		p, err := svc.Pumps.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(p)
	})
	pumps.Get("/:id/availability", func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return err
		}
		ok, err := svc.Pumps.Availability(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(ok)
	})
	pumps.Put("/:id", updatePump(svc.Pumps))
	pumps.Patch("/:id/status", func(c *fiber.Ctx) error {
		return changeStatus(c, svc.Pumps, domain.PumpStatus(c.Query("status")), true)
	})
	pumps.Put("/:id/activate", func(c *fiber.Ctx) error {
		return changeStatus(c, svc.Pumps, domain.PumpActive, false)
	})
	pumps.Put("/:id/deactivate", func(c *fiber.Ctx) error {
		return changeStatus(c, svc.Pumps, domain.PumpInactive, false)
	})
	pumps.Delete("/:id", func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.Pumps.Delete(c.UserContext(), id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	cons := app.Group("/api/consumptions")
	cons.Get("/", func(c *fiber.Ctx) error {
		items, err := svc.Consumptions.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(items)
	})
	cons.Post("/", recordConsumption(svc.Consumptions))
	cons.Get("/total", func(c *fiber.Ctx) error {
		total, err := svc.Consumptions.Total(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(total)
	})
	cons.Get("/over-consumption/:threshold", func(c *fiber.Ctx) error {
		threshold, err := paramFloat(c.Params("threshold"), "threshold")
		if err != nil {
			return err
		}
		items, err := svc.Consumptions.ListAbove(c.UserContext(), threshold)
		if err != nil {
			return err
		}
		return c.JSON(items)
	})
	cons.Get("/pump/:pumpId", func(c *fiber.Ctx) error {
		id, err := paramID(c, "pumpId")
		if err != nil {
			return err
		}
		items, err := svc.Consumptions.ListByPump(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(items)
	})
	cons.Get("/pump/:pumpId/period", func(c *fiber.Ctx) error {
		id, err := paramID(c, "pumpId")
		if err != nil {
			return err
		}
		from, to, err := queryRange(c)
		if err != nil {
			return err
		}
		items, err := svc.Consumptions.ListByPumpBetween(c.UserContext(), id, from, to)
		if err != nil {
			return err
		}
		return c.JSON(items)
	})
	cons.Get("/pump/:pumpId/total", func(c *fiber.Ctx) error {
		id, err := paramID(c, "pumpId")
		if err != nil {
			return err
		}
		from, to, err := queryRange(c)
		if err != nil {
			return err
		}
		total, err := svc.Consumptions.TotalByPumpBetween(c.UserContext(), id, from, to)
		if err != nil {
			return err
		}
		return c.JSON(total)
	})
}

func createPump(dir *service.PumpDirectory) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req pumpRequest
		if err := parseBody(c, &req); err != nil {
			return err
		}
		p, err := req.pump()
		if err != nil {
			return err
		}
		created, err := dir.Create(c.UserContext(), p)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

func updatePump(dir *service.PumpDirectory) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return err
		}
		var req pumpRequest
		if err := parseBody(c, &req); err != nil {
			return err
		}
		p, err := req.pump()
		if err != nil {
			return err
		}
		updated, err := dir.Update(c.UserContext(), id, p)
		if err != nil {
			return err
		}
		return c.JSON(updated)
	}
}

func changeStatus(c *fiber.Ctx, dir *service.PumpDirectory, status domain.PumpStatus, withBody bool) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	st, err := domain.ParsePumpStatus(string(status))
	if err != nil {
		return err
	}
	p, err := dir.ChangeStatus(c.UserContext(), id, st)
	if err != nil {
		return err
	}
	if !withBody {
		return c.SendStatus(fiber.StatusOK)
	}
	return c.JSON(p)
}

func recordConsumption(rec *service.ConsumptionRecorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req consumptionRequest
		if err := parseBody(c, &req); err != nil {
			return err
		}
		pumpID := req.pumpID()
		if pumpID <= 0 {
			return fmt.Errorf("%w: pump_id is required", domain.ErrValidation)
		}
		at, err := optionalTime(req.MeasuredAt)
		if err != nil {
			return err
		}
		reading, err := rec.Record(c.UserContext(), pumpID, req.EnergyUsed, req.Duration, at)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(reading)
	}
}
