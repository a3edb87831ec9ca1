package health

import (
	"github.com/gofiber/fiber/v2"

	"github.com/GintGld/chat-envboot/internal/models"
)

// New returns fiber app reporting
// whether required variables are defined.
func New(checkSrv EnvCheck, renderSrv Renderer) *fiber.App {
	healthCtr := healthController{
		check:  checkSrv,
		render: renderSrv,
	}

	app := fiber.New()

	app.Get("/", healthCtr.health)

	return app
}

type healthController struct {
	check  EnvCheck
	render Renderer
}

type EnvCheck interface {
	Check() models.CheckResult
}

type Renderer interface {
	AssertRootRendered() error
}

func (healthCtr *healthController) health(c *fiber.Ctx) error {
	res := healthCtr.check.Check()
	rendered := healthCtr.render.AssertRootRendered() == nil

	status := fiber.StatusOK
	if !res.OK() || !rendered {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"defined":     res.Defined,
		"missing":     res.Missing,
		"suggestions": res.Suggestions,
		"rendered":    rendered,
	})
}
