package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"
	"gorm.io/gorm"

	"github.com/domoskost/kost-app/models"
	"github.com/domoskost/kost-app/utils"
)

type ReportController struct {
	DB *gorm.DB
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db}
}

type monthlyRevenue struct {
	Month          int     `json:"month"`
	MonthName      string  `json:"month_name"`
	RentRevenue    float64 `json:"rent_revenue"`
	LaundryRevenue float64 `json:"laundry_revenue"`
	Total          float64 `json:"total"`
}

// revenueByMonth menghitung pendapatan per bulan dalam satu tahun.
// Sewa dihitung dari pembayaran terverifikasi (tanggal bayar), laundry
// dari order yang tidak dibatalkan (tanggal terima).
func (rc *ReportController) revenueByMonth(year int) []monthlyRevenue {
	report := make([]monthlyRevenue, 12)

	for m := 1; m <= 12; m++ {
		start := time.Date(year, time.Month(m), 1, 0, 0, 0, 0, time.Local)
		end := start.AddDate(0, 1, 0)

		row := monthlyRevenue{Month: m, MonthName: models.MonthName(m)}

		rc.DB.Model(&models.Payment{}).
			Where("verification_status = ? AND paid_at >= ? AND paid_at < ?",
				models.VerificationVerified, start, end).
			Select("COALESCE(SUM(amount), 0)").Row().Scan(&row.RentRevenue)

		rc.DB.Model(&models.LaundryOrder{}).
			Where("order_status != ? AND received_at >= ? AND received_at < ?",
				models.LaundryCancelled, start, end).
			Select("COALESCE(SUM(total_cost), 0)").Row().Scan(&row.LaundryRevenue)

		row.Total = row.RentRevenue + row.LaundryRevenue
		report[m-1] = row
	}

	return report
}

// GetRevenueReport -> pendapatan bulanan satu tahun
func (rc *ReportController) GetRevenueReport(c *gin.Context) {
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().Year())))
	if err != nil || year < 2000 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("tahun tidak valid"))
		return
	}

	report := rc.revenueByMonth(year)

	var totalRent, totalLaundry float64
	for _, row := range report {
		totalRent += row.RentRevenue
		totalLaundry += row.LaundryRevenue
	}

	utils.RespondJSON(c, http.StatusOK, "Revenue report", gin.H{
		"year":          year,
		"monthly":       report,
		"total_rent":    totalRent,
		"total_laundry": totalLaundry,
		"total":         totalRent + totalLaundry,
	})
}

// GetOutstandingReport -> piutang: tagihan belum lunas beserta sisanya
func (rc *ReportController) GetOutstandingReport(c *gin.Context) {
	var bills []models.Bill
	if err := rc.DB.Preload("Tenant.User").Preload("Tenant.Room").
		Where("status != ?", models.BillPaid).
		Order("period_year ASC, period_month ASC").
		Find(&bills).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	type outstandingBill struct {
		models.Bill
		PaidAmount float64 `json:"paid_amount"`
		Remaining  float64 `json:"remaining"`
	}

	var report []outstandingBill
	var totalRemaining float64
	for _, bill := range bills {
		var paid float64
		rc.DB.Model(&models.Payment{}).
			Where("bill_id = ? AND verification_status = ?", bill.ID, models.VerificationVerified).
			Select("COALESCE(SUM(amount), 0)").Row().Scan(&paid)

		remaining := bill.TotalAmount + bill.Penalty - paid
		if remaining < 0 {
			remaining = 0
		}
		totalRemaining += remaining
		report = append(report, outstandingBill{Bill: bill, PaidAmount: paid, Remaining: remaining})
	}

	utils.RespondJSON(c, http.StatusOK, "Outstanding report", gin.H{
		"bills":           report,
		"total_remaining": totalRemaining,
	})
}

// GetLaundrySummary -> rekap order laundry per periode
func (rc *ReportController) GetLaundrySummary(c *gin.Context) {
	month, _ := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(time.Now().Month()))))
	year, _ := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().Year())))
	if month < 1 || month > 12 || year < 2000 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("periode tidak valid"))
		return
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)

	var summary struct {
		TotalOrders   int64   `json:"total_orders"`
		Completed     int64   `json:"completed"`
		Cancelled     int64   `json:"cancelled"`
		TotalWeightKg float64 `json:"total_weight_kg"`
		TotalRevenue  float64 `json:"total_revenue"`
	}

	base := rc.DB.Model(&models.LaundryOrder{}).
		Where("received_at >= ? AND received_at < ?", start, end)

	base.Session(&gorm.Session{}).Count(&summary.TotalOrders)
	base.Session(&gorm.Session{}).Where("order_status = ?", models.LaundryCompleted).Count(&summary.Completed)
	base.Session(&gorm.Session{}).Where("order_status = ?", models.LaundryCancelled).Count(&summary.Cancelled)
	base.Session(&gorm.Session{}).Where("order_status != ?", models.LaundryCancelled).
		Select("COALESCE(SUM(weight_kg), 0)").Row().Scan(&summary.TotalWeightKg)
	base.Session(&gorm.Session{}).Where("order_status != ?", models.LaundryCancelled).
		Select("COALESCE(SUM(total_cost), 0)").Row().Scan(&summary.TotalRevenue)

	utils.RespondJSON(c, http.StatusOK, "Laundry summary", gin.H{
		"period":  fmt.Sprintf("%s %d", models.MonthName(month), year),
		"summary": summary,
	})
}

// ExportRevenuePDF mengunduh laporan pendapatan tahunan sebagai PDF.
func (rc *ReportController) ExportRevenuePDF(c *gin.Context) {
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().Year())))
	if err != nil || year < 2000 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("tahun tidak valid"))
		return
	}

	report := rc.revenueByMonth(year)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Laporan Pendapatan Domos Kost %d", year))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(40, 8, "Bulan", "1", 0, "L", true, 0, "")
	pdf.CellFormat(45, 8, "Sewa Kamar (Rp)", "1", 0, "R", true, 0, "")
	pdf.CellFormat(45, 8, "Laundry (Rp)", "1", 0, "R", true, 0, "")
	pdf.CellFormat(45, 8, "Total (Rp)", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	var grandTotal float64
	for _, row := range report {
		pdf.CellFormat(40, 8, row.MonthName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 8, utils.FormatCurrency(row.RentRevenue), "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 8, utils.FormatCurrency(row.LaundryRevenue), "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 8, utils.FormatCurrency(row.Total), "1", 1, "R", false, 0, "")
		grandTotal += row.Total
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(130, 8, "Total", "1", 0, "L", true, 0, "")
	pdf.CellFormat(45, 8, utils.FormatCurrency(grandTotal), "1", 1, "R", true, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(0, 6, fmt.Sprintf("Dibuat: %s", time.Now().Format("02/01/2006 15:04")))

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=laporan-pendapatan-%d.pdf", year))

	if err := pdf.Output(c.Writer); err != nil {
		utils.ErrorLogger.Printf("failed to write revenue PDF: %v", err)
	}
}
