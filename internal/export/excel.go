package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Exporter пишет отчеты по бронированиям в xlsx файлы.
type Exporter struct {
	path   string
	logger *zerolog.Logger
}

func NewExporter(path string, logger *zerolog.Logger) *Exporter {
	return &Exporter{path: path, logger: logger}
}

// BookingsReport создает Excel файл с бронированиями владельца за период
// и возвращает путь к файлу.
func (e *Exporter) BookingsReport(bookings []models.Booking, startDate, endDate time.Time) (string, error) {
	// Создаем папку для экспорта, если не существует
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Бронирования"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	// Заголовок периода
	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Период: %s - %s",
		startDate.Format("02.01.2006"), endDate.Format("02.01.2006")))
	_ = f.MergeCell(sheetName, "A1", "H1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	headers := []string{"ID", "Вещь", "Арендатор", "Начало", "Конец", "Статус", "Создано", "Обновлено"}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, booking := range bookings {
		row := i + 3
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), booking.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), booking.ItemName)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), booking.BookerName)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), booking.Start.Format("02.01.2006 15:04"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), booking.End.Format("02.01.2006 15:04"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), booking.Status)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), booking.CreatedAt.Format("02.01.2006 15:04"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), booking.UpdatedAt.Format("02.01.2006 15:04"))

		if styleID, err := e.statusStyle(f, booking.Status); err == nil {
			cell := fmt.Sprintf("F%d", row)
			_ = f.SetCellStyle(sheetName, cell, cell, styleID)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 8)
	_ = f.SetColWidth(sheetName, "B", "C", 25)
	_ = f.SetColWidth(sheetName, "D", "E", 18)
	_ = f.SetColWidth(sheetName, "F", "H", 16)

	// Удаляем стандартный лист
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_%s_to_%s.xlsx",
		startDate.Format("2006-01-02"),
		endDate.Format("2006-01-02"))
	filePath := filepath.Join(e.path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Int("bookings", len(bookings)).Msg("Excel file created")
	return filePath, nil
}

// statusStyle подсвечивает статус: зеленый для одобренных, желтый для
// ожидающих, красный для отклоненных.
func (e *Exporter) statusStyle(f *excelize.File, status string) (int, error) {
	color := "#FFFFFF"
	switch status {
	case models.StatusApproved:
		color = "#C6EFCE"
	case models.StatusWaiting:
		color = "#FFEB9C"
	case models.StatusRejected, models.StatusCanceled:
		color = "#FFC7CE"
	}

	return f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
}
