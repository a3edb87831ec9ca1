package shell

import (
	"github.com/gofiber/fiber/v2"
)

// New returns fiber app serving application shell
// and its runtime environment.
func New(shellSrv Shell) *fiber.App {
	shellCtr := shellController{
		srv: shellSrv,
	}

	app := fiber.New()

	app.Get("/", shellCtr.index)
	app.Get("/env", shellCtr.env)

	return app
}

type shellController struct {
	srv Shell
}

type Shell interface {
	Render() ([]byte, error)
	Env() map[string]string
}

// index renders shell page
func (shellCtr *shellController) index(c *fiber.Ctx) error {
	page, err := shellCtr.srv.Render()
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	c.Set(fiber.HeaderCacheControl, "no-cache")

	return c.Status(fiber.StatusOK).Send(page)
}

// env returns prefixed variables as json
func (shellCtr *shellController) env(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"env": shellCtr.srv.Env(),
	})
}
