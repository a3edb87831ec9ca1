package runs

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/GintGld/chat-envboot/internal/models"
	"github.com/GintGld/chat-envboot/internal/service"
)

// New returns fiber app with bootstrap run history.
func New(historySrv History) *fiber.App {
	runsCtr := runsController{
		srv: historySrv,
	}

	app := fiber.New()

	app.Get("/", runsCtr.runs)
	app.Get("/:id", runsCtr.run)

	return app
}

type runsController struct {
	srv History
}

type History interface {
	Run(ctx context.Context, id int64) (models.Report, error)
	Runs(ctx context.Context, limit int) ([]models.Report, error)
}

// runs returns latest bootstrap runs
func (runsCtr *runsController) runs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)

	res, err := runsCtr.srv.Runs(c.UserContext(), limit)
	if err != nil {
		return sendErr(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"runs": res,
	})
}

// run returns bootstrap run by id
func (runsCtr *runsController) run(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "bad id",
		})
	}

	res, err := runsCtr.srv.Run(c.UserContext(), id)
	if err != nil {
		return sendErr(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"run": res,
	})
}

func sendErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrRunNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "run not found",
		})
	case errors.Is(err, service.ErrHistoryDisabled):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "history disabled",
		})
	case errors.Is(err, service.ErrTimeout):
		return c.SendStatus(fiber.StatusGatewayTimeout)
	default:
		return c.SendStatus(fiber.StatusInternalServerError)
	}
}
