package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // String helpers
	"time"     // Dates and timestamps

	"game_store/internal/middleware" // Caller identity
	"game_store/internal/shop"       // Business operations
	"game_store/internal/storage"    // Uploaded images

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Money amounts
	"github.com/sirupsen/logrus"    // Logging library
)

// GameRequest is the JSON body of the admin game form. Multipart forms
// carry the same field names plus an "image" file.
type GameRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ReleaseDate string          `json:"releaseDate"`
	CategoryIDs []int           `json:"categoryIds"`
	ImageURL    string          `json:"imageUrl"`
}

var errBadGameForm = errors.New("ข้อมูลเกมไม่ถูกต้อง")

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func parseGameRequest(c *gin.Context) (shop.GameInput, error) {
	var req GameRequest // Bind request to struct
	if isMultipart(c) {
		req.Title = c.PostForm("title")
		req.Description = c.PostForm("description")
		req.ReleaseDate = c.PostForm("releaseDate")
		price, err := decimal.NewFromString(strings.TrimSpace(c.PostForm("price")))
		if err != nil {
			return shop.GameInput{}, errBadGameForm
		}
		req.Price = price
		for _, raw := range c.PostFormArray("categoryIds") {
			for _, part := range strings.Split(raw, ",") {
				if part = strings.TrimSpace(part); part == "" {
					continue
				}
				id, err := strconv.Atoi(part)
				if err != nil {
					return shop.GameInput{}, errBadGameForm
				}
				req.CategoryIDs = append(req.CategoryIDs, id)
			}
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		return shop.GameInput{}, errBadGameForm
	}
	release, err := parseDate(req.ReleaseDate)
	if err != nil {
		return shop.GameInput{}, errBadGameForm
	}
	return shop.GameInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		ReleaseDate: release,
		CategoryIDs: req.CategoryIDs,
		ImageURL:    req.ImageURL,
	}, nil
}

// ListGamesHandler returns the catalog, optionally filtered by ?category=.
func ListGamesHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		games, err := svc.ListGames(c.Request.Context(), queryInt(c, "category", 0))
		if err != nil {
			respondError(c, err, "list games")
			return
		}
		respondOK(c, "", toGames(games))
	}
}

// GetGameHandler returns one game with its categories
func GetGameHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := pathUUID(c, "id", shop.ErrInvalidGameID.Message) // Parse id from path
		if !valid {
			return
		}
		game, err := svc.GetGame(c.Request.Context(), id)
		if err != nil {
			respondError(c, err, "get game")
			return
		}
		respondOK(c, "", toGame(*game))
	}
}

// SearchGamesHandler matches ?q= against titles and descriptions
func SearchGamesHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		games, err := svc.SearchGames(c.Request.Context(), c.Query("q"))
		if err != nil {
			respondError(c, err, "search games")
			return
		}
		respondOK(c, "", toGames(games))
	}
}

// LatestGameHandler returns the newest release
func LatestGameHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		game, err := svc.LatestGame(c.Request.Context())
		if err != nil {
			respondError(c, err, "latest game")
			return
		}
		respondOK(c, "", toGame(*game))
	}
}

// TopSellersHandler ranks games by copies sold
func TopSellersHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellers, err := svc.TopSellers(c.Request.Context(), queryInt(c, "limit", 10))
		if err != nil {
			respondError(c, err, "top sellers")
			return
		}
		out := make([]TopSellerDTO, len(sellers))
		for i, s := range sellers {
			out[i] = TopSellerDTO{GameDTO: toGame(s.Game), TotalSold: s.Sold, Rank: i + 1}
		}
		respondOK(c, "", out)
	}
}

// ListCategoriesHandler lists the storefront categories
func ListCategoriesHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := svc.ListCategories(c.Request.Context())
		if err != nil {
			respondError(c, err, "list categories")
			return
		}
		out := make([]CategoryDTO, len(categories))
		for i, cat := range categories {
			out[i] = CategoryDTO{ID: cat.ID, Name: cat.Name}
		}
		respondOK(c, "", out)
	}
}

// CreateGameHandler adds a game; an uploaded "image" file wins over imageUrl.
func CreateGameHandler(svc *shop.Service, images *storage.Images) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID, _ := middleware.UserID(c) // Acting admin
		in, err := parseGameRequest(c)
		if err != nil {
			// If invalid, return bad request
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		image, err := saveUpload(c, images, "image")
		if err != nil {
			respondError(c, err, "create game")
			return
		}
		if image != nil {
			in.ImageURL = *image
		}
		game, err := svc.CreateGame(c.Request.Context(), adminID, in)
		if err != nil {
			discardUpload(images, image)
			respondError(c, err, "create game")
			return
		}
		respondCreated(c, "เพิ่มเกมสำเร็จ", toGame(*game))
	}
}

// UpdateGameHandler edits a game (admin only)
func UpdateGameHandler(svc *shop.Service, images *storage.Images) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID, _ := middleware.UserID(c)                            // Acting admin
		id, valid := pathUUID(c, "id", shop.ErrInvalidGameID.Message) // Parse id from path
		if !valid {
			return
		}
		in, err := parseGameRequest(c)
		if err != nil {
			// If invalid, return bad request
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		image, err := saveUpload(c, images, "image")
		if err != nil {
			respondError(c, err, "update game")
			return
		}
		if image != nil {
			in.ImageURL = *image
		}
		game, replaced, err := svc.UpdateGame(c.Request.Context(), adminID, id, in)
		if err != nil {
			discardUpload(images, image)
			respondError(c, err, "update game")
			return
		}
		removeStoredImage(images, replaced)
		respondOK(c, "แก้ไขเกมสำเร็จ", toGame(*game))
	}
}

// DeleteGameHandler removes a game nobody owns (admin only)
func DeleteGameHandler(svc *shop.Service, images *storage.Images) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID, _ := middleware.UserID(c)                            // Acting admin
		id, valid := pathUUID(c, "id", shop.ErrInvalidGameID.Message) // Parse id from path
		if !valid {
			return
		}
		game, err := svc.DeleteGame(c.Request.Context(), adminID, id)
		if err != nil {
			respondError(c, err, "delete game")
			return
		}
		removeStoredImage(images, game.ImageURL)
		respondOK(c, "ลบเกมสำเร็จ", nil)
	}
}

// removeStoredImage deletes a replaced image when it lives in the local store.
func removeStoredImage(images *storage.Images, url string) {
	if !strings.HasPrefix(url, storage.URLPrefix) {
		return
	}
	if err := images.Delete(url); err != nil && !errors.Is(err, storage.ErrNotFound) {
		logrus.WithFields(logrus.Fields{"image": url, "error": err.Error()}).Warn("Failed to remove replaced image")
	}
}
