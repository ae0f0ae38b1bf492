package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// internalError logs the cause and answers with a generic 500, so SQL and
// driver detail never reaches the client.
func internalError(ctx *fiber.Ctx, err error) error {
	logrus.WithError(err).WithFields(logrus.Fields{
		"method": ctx.Method(),
		"path":   ctx.Path(),
	}).Error("request failed")

	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}
