package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"grambazaar/internal/domain"
	"grambazaar/internal/repos"
)

// ListingService covers the moderation flows around the catalog: seller
// submission, admin approval/rejection, and the removal-request handshake.
type ListingService struct {
	Listings *repos.ListingRepo
	Sellers  *repos.SellerRepo
}

func NewListingService(listings *repos.ListingRepo, sellers *repos.SellerRepo) *ListingService {
	return &ListingService{Listings: listings, Sellers: sellers}
}

type ListingSubmission struct {
	Title       string
	Description string
	Price       decimal.Decimal
	Category    string
	ImagePath   string
	Inventory   int
}

// Submit creates a pending listing awaiting admin approval.
func (s *ListingService) Submit(sellerID string, sub ListingSubmission) (domain.Listing, error) {
	seller, err := s.Sellers.Get(sellerID)
	if err != nil {
		return domain.Listing{}, err
	}
	if sub.Title == "" || !domain.ValidCategory(sub.Category) || sub.Price.IsNegative() || sub.Inventory < 0 {
		return domain.Listing{}, domain.ErrValidation
	}

	l := domain.Listing{
		ID:          uuid.NewString(),
		SellerID:    seller.ID,
		Title:       sub.Title,
		Slug:        slugify(fmt.Sprintf("%s-%s", sub.Title, seller.Name)),
		Description: sub.Description,
		Price:       sub.Price,
		Category:    sub.Category,
		ImagePath:   sub.ImagePath,
		Inventory:   sub.Inventory,
		Status:      domain.ListingPending,
	}
	if err := s.Listings.Create(l); err != nil {
		return domain.Listing{}, err
	}
	return l, nil
}

func (s *ListingService) Approve(listingID string) error {
	return s.Listings.UpdateStatus(listingID, domain.ListingLive)
}

func (s *ListingService) Reject(listingID string) error {
	return s.Listings.UpdateStatus(listingID, domain.ListingRejected)
}

// RequestRemoval flags a seller's own live or pending listing for removal.
func (s *ListingService) RequestRemoval(sellerID, listingID string) error {
	l, err := s.Listings.Get(listingID)
	if err != nil {
		return err
	}
	if l.SellerID != sellerID {
		return domain.ErrForbidden
	}
	if l.Status != domain.ListingLive && l.Status != domain.ListingPending {
		return domain.ErrInvalidTransition
	}
	if l.RemovalRequested {
		return nil // already requested; idempotent
	}
	return s.Listings.SetRemovalRequested(listingID, true)
}

// ApproveRemoval deletes a listing whose removal was requested.
func (s *ListingService) ApproveRemoval(listingID string) error {
	l, err := s.Listings.Get(listingID)
	if err != nil {
		return err
	}
	if !l.RemovalRequested {
		return domain.ErrInvalidTransition
	}
	return s.Listings.Delete(listingID)
}

// RejectRemoval clears the removal flag.
func (s *ListingService) RejectRemoval(listingID string) error {
	l, err := s.Listings.Get(listingID)
	if err != nil {
		return err
	}
	if !l.RemovalRequested {
		return domain.ErrInvalidTransition
	}
	return s.Listings.SetRemovalRequested(listingID, false)
}

func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
