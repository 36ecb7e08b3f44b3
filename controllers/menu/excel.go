package menuControllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/qrdine-app/qrdine-api/models"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// Import sheet columns: ID (optional, update when present), Name, Description,
// Price, Category, Allergens (comma-separated), Available (true/false),
// ImageURL.

// POST /admin/restaurants/:restaurantID/menu/import
func ImportMenuFromExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID := c.Param("restaurantID")

		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse Excel file"})
			return
		}

		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		sheet := xlFile.Sheets[0]
		createdCount, updatedCount, skippedCount := 0, 0, 0

		for i := 1; i < sheet.MaxRow; i++ {
			row := sheet.Rows[i]

			get := func(index int) string {
				if index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			id := get(0)
			name := get(1)
			description := get(2)
			price, priceErr := strconv.ParseFloat(get(3), 64)
			category := get(4)
			allergensStr := get(5)
			availableStr := strings.ToLower(get(6))
			imageURL := get(7)

			if name == "" || priceErr != nil || price < 0 {
				skippedCount++
				continue
			}

			var allergens models.StringList
			for _, part := range strings.Split(allergensStr, ",") {
				if trimmed := strings.TrimSpace(part); trimmed != "" {
					allergens = append(allergens, trimmed)
				}
			}

			available := availableStr != "false" && availableStr != "no" && availableStr != "0"

			if id != "" {
				var existing models.MenuItem
				if err := db.First(&existing, "id = ? AND restaurant_id = ?", id, restaurantID).Error; err == nil {
					existing.Name = name
					existing.Description = description
					existing.Price = price
					existing.Category = category
					existing.Allergens = allergens
					existing.Available = available
					existing.ImageURL = imageURL
					if err := db.Save(&existing).Error; err == nil {
						updatedCount++
					} else {
						skippedCount++
					}
					continue
				}
			}

			item := models.MenuItem{
				ID:           uuid.New().String(),
				RestaurantID: restaurantID,
				Name:         name,
				Description:  description,
				Price:        price,
				Category:     category,
				Allergens:    allergens,
				Available:    available,
				ImageURL:     imageURL,
			}
			if err := db.Create(&item).Error; err == nil {
				createdCount++
			} else {
				skippedCount++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Menu import completed",
			"created": createdCount,
			"updated": updatedCount,
			"skipped": skippedCount,
		})
	}
}

// GET /admin/restaurants/:restaurantID/menu/export
func ExportMenuToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID := c.Param("restaurantID")

		var items []models.MenuItem
		if err := db.Where("restaurant_id = ?", restaurantID).Order("category, name").Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch menu"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Menu")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headers := []string{
			"ID", "Name", "Description", "Price", "Category",
			"Allergens", "Available", "ImageURL", "CreatedAt", "UpdatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, item := range items {
			row := sheet.AddRow()
			row.AddCell().SetValue(item.ID)
			row.AddCell().SetValue(item.Name)
			row.AddCell().SetValue(item.Description)
			row.AddCell().SetValue(item.Price)
			row.AddCell().SetValue(item.Category)
			row.AddCell().SetValue(strings.Join(item.Allergens, ","))
			row.AddCell().SetValue(strconv.FormatBool(item.Available))
			row.AddCell().SetValue(item.ImageURL)
			row.AddCell().SetValue(item.CreatedAt.Format("2006-01-02 15:04:05"))
			row.AddCell().SetValue(item.UpdatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=menu.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
