package controllers

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"godown-app/config"
	"godown-app/repositories"
	"godown-app/utils"
)

type AnalyticsController struct {
	DB        *gorm.DB
	analytics *repositories.AnalyticsRepository
}

func NewAnalyticsController(db *gorm.DB) *AnalyticsController {
	return &AnalyticsController{DB: db, analytics: repositories.NewAnalyticsRepository(db)}
}

func (c *AnalyticsController) GetOverview(ctx *fiber.Ctx) error {
	overview, err := c.analytics.GetOverview()
	if err != nil {
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Overview found", "data": overview})
}

// GetMovements returns intake/outtake per period bucket. ?period is one of
// day, week, month, year; ?godown_id scopes to one godown.
func (c *AnalyticsController) GetMovements(ctx *fiber.Ctx) error {
	godownID := ctx.QueryInt("godown_id", 0)

	movements, err := c.analytics.Movements(ctx.Query("period", "day"), uint(godownID))
	if err != nil {
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Movements found", "data": movements})
}

func (c *AnalyticsController) GetTopProducts(ctx *fiber.Ctx) error {
	products, err := c.analytics.TopProducts(ctx.QueryInt("limit", 10))
	if err != nil {
		return internalError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Top products found", "data": products})
}

func (c *AnalyticsController) buildMovementReport(period string) (*excelize.File, error) {
	movements, err := c.analytics.Movements(period, 0)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Movements"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Period", "Added Cases", "Taken Cases"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for row, m := range movements {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row+2), m.Bucket)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row+2), m.AddedCases)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row+2), m.TakenCases)
	}
	return f, nil
}

// ExportMovements streams the movement report as an Excel download.
func (c *AnalyticsController) ExportMovements(ctx *fiber.Ctx) error {
	f, err := c.buildMovementReport(ctx.Query("period", "month"))
	if err != nil {
		return internalError(ctx, err)
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="stock_movements.xlsx"`)

	if err := f.Write(ctx.Response().BodyWriter()); err != nil {
		return internalError(ctx, err)
	}
	return nil
}

// EmailReport builds the movement report and mails it to the configured
// recipient.
func (c *AnalyticsController) EmailReport(ctx *fiber.Ctx) error {
	if config.ReportTo == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "REPORT_TO is not configured"})
	}

	period := ctx.Query("period", "month")
	f, err := c.buildMovementReport(period)
	if err != nil {
		return internalError(ctx, err)
	}

	path := filepath.Join(os.TempDir(), fmt.Sprintf("movements_%d.xlsx", time.Now().UnixNano()))
	if err := f.SaveAs(path); err != nil {
		return internalError(ctx, err)
	}
	defer os.Remove(path)

	subject := fmt.Sprintf("Stock movement report (%s)", period)
	body := fmt.Sprintf(`<html><body>
		<h3>Stock movement report</h3>
		<p>Period: <strong>%s</strong></p>
		<p>Generated at %s. The report is attached.</p>
	</body></html>`, period, time.Now().Format("2006-01-02 15:04"))

	if err := utils.SendReportEmail([]string{config.ReportTo}, subject, body, path); err != nil {
		logrus.WithError(err).Error("failed to send report email")
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to send report email"})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Report emailed successfully"})
}
