package infra

// pdf.go — production order sheet generation using go-pdf/fpdf.
// Renders an A4 sheet with the order header, product line, and the
// per-unit and total material requirements from the recipe.
// The output file is saved to storagePath/order_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pedroaraujox/Viza-Stock/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateOrderPDF writes a production sheet for an order.
// recipe may be nil when the product has no recipe on file.
// Returns the absolute path to the generated file.
func GenerateOrderPDF(order *model.ProductionOrder, recipe *model.Recipe, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("order_%s.pdf", order.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// Header
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Production Order", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Viza Stock", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Order info
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Order %s", order.ID), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Status: %s", order.Status), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Created: %s", order.CreatedAt.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	if order.ExecutedAt != nil {
		pdf.CellFormat(contentW, 5, fmt.Sprintf("Executed: %s", order.ExecutedAt.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(3)

	// Product line
	productName := order.ProductID
	unit := ""
	if order.Product != nil {
		productName = fmt.Sprintf("%s — %s", order.Product.ID, order.Product.Name)
		unit = order.Product.Unit
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, productName, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Quantity to produce: %s %s", order.Quantity.String(), unit), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Materials table
	if recipe != nil && len(recipe.Lines) > 0 {
		col1 := contentW * 0.14 // code
		col2 := contentW * 0.40 // name
		col3 := contentW * 0.22 // per unit
		col4 := contentW * 0.24 // total required

		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(col1, 6, "Code", "B", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, "Material", "B", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 6, "Per unit", "B", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, "Required", "B", 1, "R", false, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		for _, line := range recipe.Lines {
			name := line.MaterialID
			materialUnit := ""
			if line.Material != nil {
				name = line.Material.Name
				materialUnit = " " + line.Material.Unit
			}
			if len(name) > 40 {
				name = name[:39] + "…"
			}
			required := line.QuantityPerUnit.Mul(order.Quantity)
			pdf.CellFormat(col1, 6, line.MaterialID, "", 0, "L", false, 0, "")
			pdf.CellFormat(col2, 6, name, "", 0, "L", false, 0, "")
			pdf.CellFormat(col3, 6, line.QuantityPerUnit.String()+materialUnit, "", 0, "R", false, 0, "")
			pdf.CellFormat(col4, 6, required.String()+materialUnit, "", 1, "R", false, 0, "")
		}
	} else {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(contentW, 6, "No recipe on file for this product.", "", 1, "L", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
