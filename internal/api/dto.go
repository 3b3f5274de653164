package api

import (
	"time" // Dates and timestamps

	"game_store/internal/domain" // Importing domain models
	"game_store/internal/shop"   // Business operations

	"github.com/google/uuid"        // Entity ids
	"github.com/shopspring/decimal" // Money amounts
)

// UserDTO is an account as its owner sees it
type UserDTO struct {
	ID            uuid.UUID       `json:"id"`
	Username      string          `json:"username"`
	Email         string          `json:"email"`
	Role          string          `json:"role"`
	ProfileImage  *string         `json:"profileImage,omitempty"`
	WalletBalance decimal.Decimal `json:"walletBalance"`
}

func toUser(a domain.Account) UserDTO {
	return UserDTO{
		ID:            a.ID,
		Username:      a.Username,
		Email:         a.Email,
		Role:          a.Role,
		ProfileImage:  a.ProfileImage,
		WalletBalance: a.WalletBalance,
	}
}

// PublicProfileDTO is what anyone may see about an account.
type PublicProfileDTO struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	ProfileImage *string   `json:"profileImage,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TransactionDTO is one wallet movement
type TransactionDTO struct {
	ID              uint            `json:"id"`
	UserID          uuid.UUID       `json:"userId"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	ReferenceID     *uuid.UUID      `json:"referenceId,omitempty"`
	TransactionDate time.Time       `json:"transactionDate"`
}

func toTransaction(t domain.TransactionHistory) TransactionDTO {
	return TransactionDTO{
		ID:              t.ID,
		UserID:          t.UserID,
		Type:            t.Type,
		Amount:          t.Amount,
		Description:     t.Describe(),
		ReferenceID:     t.ReferenceID,
		TransactionDate: t.CreatedAt,
	}
}

// UserTransactionDTO is a customer with their wallet movements.
type UserTransactionDTO struct {
	UserDTO
	TransactionHistories []TransactionDTO `json:"transactionHistories"`
}

// CategoryDTO represents a game category
type CategoryDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GameDTO represents a game in the catalog
type GameDTO struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ReleaseDate time.Time       `json:"releaseDate"`
	Categories  []CategoryDTO   `json:"categories"`
	ImageURL    string          `json:"imageUrl,omitempty"`
}

func toGame(g domain.Game) GameDTO {
	categories := make([]CategoryDTO, len(g.Categories))
	for i, c := range g.Categories {
		categories[i] = CategoryDTO{ID: c.ID, Name: c.Name}
	}
	return GameDTO{
		ID:          g.ID,
		Title:       g.Title,
		Description: g.Description,
		Price:       g.Price,
		ReleaseDate: g.ReleaseDate,
		Categories:  categories,
		ImageURL:    g.ImageURL,
	}
}

func toGames(games []domain.Game) []GameDTO {
	out := make([]GameDTO, len(games))
	for i, g := range games {
		out[i] = toGame(g)
	}
	return out
}

// TopSellerDTO is a game with its sales rank
type TopSellerDTO struct {
	GameDTO
	TotalSold int64 `json:"totalSold"`
	Rank      int   `json:"rank"`
}

// CartItemDTO is one cart row with its game
type CartItemDTO struct {
	ID      uint      `json:"id"`
	GameID  uuid.UUID `json:"gameId"`
	AddedAt time.Time `json:"addedAt"`
	Game    GameDTO   `json:"game"`
}

func toCartItem(it domain.CartItem) CartItemDTO {
	return CartItemDTO{ID: it.ID, GameID: it.GameID, AddedAt: it.AddedAt, Game: toGame(it.Game)}
}

// CouponQuoteDTO is the discount a coupon would give
type CouponQuoteDTO struct {
	CouponID        uuid.UUID       `json:"couponId"`
	Code            string          `json:"code"`
	DiscountValue   decimal.Decimal `json:"discountValue"`
	AppliedDiscount decimal.Decimal `json:"appliedDiscount"`
	Description     *string         `json:"description,omitempty"`
}

func toQuote(q *shop.CouponQuote) *CouponQuoteDTO {
	if q == nil {
		return nil
	}
	return &CouponQuoteDTO{
		CouponID:        q.CouponID,
		Code:            q.Code,
		DiscountValue:   q.DiscountValue,
		AppliedDiscount: q.AppliedDiscount,
		Description:     q.Description,
	}
}

// CartSummaryDTO is the priced cart
type CartSummaryDTO struct {
	Items      []CartItemDTO   `json:"items"`
	TotalItems int             `json:"totalItems"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Discount   decimal.Decimal `json:"discount"`
	Total      decimal.Decimal `json:"total"`
	Coupon     *CouponQuoteDTO `json:"coupon,omitempty"`
}

// CouponDTO represents a coupon (admin view)
type CouponDTO struct {
	ID             uuid.UUID       `json:"id"`
	Code           string          `json:"code"`
	Description    *string         `json:"description,omitempty"`
	CreatedDate    time.Time       `json:"createdDate"`
	DiscountValue  decimal.Decimal `json:"discountValue"`
	MaxUsage       int             `json:"maxUsage"`
	UsedCount      int             `json:"usedCount"`
	RemainingUsage int             `json:"remainingUsage"`
}

func toCoupon(d domain.DiscountCode) CouponDTO {
	return CouponDTO{
		ID:             d.ID,
		Code:           d.Code,
		Description:    d.Description,
		CreatedDate:    d.CreatedAt,
		DiscountValue:  d.DiscountValue,
		MaxUsage:       d.MaxUsage,
		UsedCount:      d.UsedCount,
		RemainingUsage: d.Remaining(),
	}
}

// PurchaseItemDTO is one bought game
type PurchaseItemDTO struct {
	GameID uuid.UUID       `json:"gameId"`
	Title  string          `json:"title"`
	Price  decimal.Decimal `json:"price"`
}

// PurchaseDTO represents a completed checkout
type PurchaseDTO struct {
	ID          uuid.UUID         `json:"id"`
	PurchasedAt time.Time         `json:"purchaseDate"`
	TotalPrice  decimal.Decimal   `json:"totalPrice"`
	FinalPrice  decimal.Decimal   `json:"finalPrice"`
	Discount    decimal.Decimal   `json:"discountAmount"`
	DiscountID  *uuid.UUID        `json:"discountId,omitempty"`
	Items       []PurchaseItemDTO `json:"items"`
}

func toPurchase(p domain.Purchase) PurchaseDTO {
	items := make([]PurchaseItemDTO, len(p.Items))
	for i, it := range p.Items {
		items[i] = PurchaseItemDTO{GameID: it.GameID, Title: it.Game.Title, Price: it.Price}
	}
	return PurchaseDTO{
		ID:          p.ID,
		PurchasedAt: p.PurchasedAt,
		TotalPrice:  p.TotalPrice,
		FinalPrice:  p.FinalPrice,
		Discount:    p.Discount(),
		DiscountID:  p.DiscountID,
		Items:       items,
	}
}

// ReceiptDTO is a purchase plus the wallet balance it left
type ReceiptDTO struct {
	PurchaseDTO
	CouponCode string          `json:"couponCode,omitempty"`
	NewBalance decimal.Decimal `json:"newBalance"`
}

func toReceipt(r *shop.Receipt) ReceiptDTO {
	dto := toPurchase(r.Purchase)
	for i, it := range r.Items {
		dto.Items[i] = PurchaseItemDTO{GameID: it.GameID, Title: it.Title, Price: it.Price}
	}
	return ReceiptDTO{PurchaseDTO: dto, CouponCode: r.CouponCode, NewBalance: r.NewBalance}
}

// OwnedGameDTO is a game in the caller's library
type OwnedGameDTO struct {
	GameDTO
	OwnedAt time.Time `json:"ownedAt"`
}

// DashboardDTO holds the admin dashboard totals
type DashboardDTO struct {
	TotalCustomers int64           `json:"totalCustomers"`
	TotalGames     int64           `json:"totalGames"`
	TotalPurchases int64           `json:"totalPurchases"`
	TotalCoupons   int64           `json:"totalCoupons"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	TotalTopups    decimal.Decimal `json:"totalTopups"`
}
