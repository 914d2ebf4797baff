package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/abrezinsky/pollbox/internal/models"
	"github.com/abrezinsky/pollbox/internal/repository"
)

// QRSize is the edge length of generated QR images
const QRSize = 256

// CodeIssuer creates single-use voting codes and their shareable links
type CodeIssuer struct {
	repo    repository.VotingCodeRepository
	newID   func() string
	baseURL string
}

func NewCodeIssuer(repo repository.VotingCodeRepository, baseURL string) *CodeIssuer {
	return &CodeIssuer{
		repo:    repo,
		newID:   models.NewID,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Generate builds n fresh unused codes for a poll without storing them
func (c *CodeIssuer) Generate(pollID string, n int) []models.VotingCode {
	codes := make([]models.VotingCode, n)
	for i := range codes {
		codes[i] = models.VotingCode{ID: c.newID(), PollID: pollID}
	}
	return codes
}

// Issue creates and stores n codes, returned in creation order
func (c *CodeIssuer) Issue(ctx context.Context, pollID string, n int) ([]models.VotingCode, error) {
	if n < 1 {
		return nil, ErrInvalidCodeCount
	}
	codes := c.Generate(pollID, n)
	if err := c.repo.CreateVotingCodes(ctx, codes); err != nil {
		return nil, err
	}
	return codes, nil
}

// VotingURL is the link a code holder follows to vote
func (c *CodeIssuer) VotingURL(pollID, code string) string {
	return fmt.Sprintf("%s/polls/%s?code=%s", c.baseURL, url.PathEscape(pollID), url.QueryEscape(code))
}

// VotingURLs returns the links for codes, keeping their order
func (c *CodeIssuer) VotingURLs(pollID string, codes []models.VotingCode) []string {
	urls := make([]string, len(codes))
	for i, code := range codes {
		urls[i] = c.VotingURL(pollID, code.ID)
	}
	return urls
}

// QRCode encodes the voting link of a code as a PNG
func (c *CodeIssuer) QRCode(pollID, code string) ([]byte, error) {
	return qrcode.Encode(c.VotingURL(pollID, code), qrcode.Medium, QRSize)
}
