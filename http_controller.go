package auth

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// AuthControllerRoutes are the paths the controller mounts its handlers on
type AuthControllerRoutes struct {
	Register string
	Login    string
}

// AuthController exposes the register and login endpoints over HTTP. It
// translates between JSON payloads and the Auther, and owns the mapping
// from domain errors to status codes.
type AuthController struct {
	Debug  bool
	Logger Logger
	Auther Authenticator
	Routes AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func WithControllerAuther(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	controller := &AuthController{
		Logger: defLogger{},
		Routes: AuthControllerRoutes{
			Register: "/auth/register",
			Login:    "/auth/login",
		},
	}

	for _, opt := range opts {
		controller = opt(controller)
	}

	if controller.Auther == nil {
		panic(fmt.Errorf("auth controller needs an authenticator"))
	}

	return controller
}

// RegisterAuthRoutes mounts the auth endpoints on the given router
func RegisterAuthRoutes(app fiber.Router, opts ...AuthControllerOption) *AuthController {
	controller := NewAuthController(opts...)
	app.Post(controller.Routes.Register, controller.RegistrationCreate)
	app.Post(controller.Routes.Login, controller.LoginPost)
	return controller
}

// RegistrationCreate handles POST /auth/register
func (c *AuthController) RegistrationCreate(ctx *fiber.Ctx) error {
	payload := RegisterUserMessage{}
	if err := ctx.BodyParser(&payload); err != nil {
		c.Logger.Error("registration body parse error: %v", err)
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if c.Debug {
		c.Logger.Debug("registration payload: %s", print.MaybePrettyJSON(payload))
	}

	if _, err := c.Auther.Register(ctx.UserContext(), payload); err != nil {
		return c.registrationError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
	})
}

func (c *AuthController) registrationError(ctx *fiber.Ctx, err error) error {
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		switch richErr.Category {
		case errors.CategoryValidation:
			body := fiber.Map{"error": richErr.Message}
			if fields := richErr.ValidationMap(); len(fields) > 0 {
				body["fields"] = fields
			}
			return ctx.Status(fiber.StatusBadRequest).JSON(body)
		case errors.CategoryConflict:
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": richErr.Message,
			})
		}
	}

	c.Logger.Error("registration error: %v", err)
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Registration failed",
	})
}

// LoginRequest is the credential pair submitted to POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(&r.Email, validation.Required),
			validation.Field(&r.Password, validation.Required),
		)
	}, "invalid login payload")
}

// LoginPost handles POST /auth/login. Every credential failure produces the
// same 401 body so the response does not leak which factor was wrong.
func (c *AuthController) LoginPost(ctx *fiber.Ctx) error {
	payload := LoginRequest{}
	if err := ctx.BodyParser(&payload); err != nil {
		c.Logger.Error("login body parse error: %v", err)
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := payload.Validate(); err != nil {
		return c.loginError(ctx, err)
	}

	result, err := c.Auther.Login(ctx.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return c.loginError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(result)
}

func (c *AuthController) loginError(ctx *fiber.Ctx, err error) error {
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.Category == errors.CategoryInternal {
		c.Logger.Error("login error: %v", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Login failed",
		})
	}

	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Invalid email or password",
	})
}
