package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Feature is a titled blurb shown on the marketing pages
type Feature struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// CreditPack is a purchasable bundle of marketplace credits. Amount is in rupees.
type CreditPack struct {
	Credits int    `yaml:"credits"`
	Amount  int    `yaml:"amount"`
	Label   string `yaml:"label"`
}

// ContactDetails are the public support channels
type ContactDetails struct {
	Phone    string `yaml:"phone"`
	Email    string `yaml:"email"`
	Address  string `yaml:"address"`
	WhatsApp string `yaml:"whatsapp"`
}

// SiteContent is the copy rendered by the static pages
type SiteContent struct {
	Brand        string         `yaml:"brand"`
	Tagline      string         `yaml:"tagline"`
	Contact      ContactDetails `yaml:"contact"`
	Values       []Feature      `yaml:"values"`
	Features     []Feature      `yaml:"features"`
	Steps        []Feature      `yaml:"steps"`
	HostcarePlan []Feature      `yaml:"hostcare"`
	CreditPacks  []CreditPack   `yaml:"credit_packs"`
}

var (
	siteContent *SiteContent
	siteLock    sync.RWMutex
)

// DefaultSiteContent is used when no content file is present
func DefaultSiteContent() SiteContent {
	return SiteContent{
		Brand:   "PropTrackrr",
		Tagline: "Manage every listing from one dashboard, straight from WhatsApp.",
		Contact: ContactDetails{
			Phone:    "+91 1234567890",
			Email:    "support@PropTrackrr.com",
			Address:  "Pune, Maharashtra, India",
			WhatsApp: "https://wa.me/919876543210",
		},
		Values: []Feature{
			{Title: "AI-Driven Simplicity", Description: "We bring automation to brokers by letting them manage listings, clients, and updates, all through WhatsApp."},
			{Title: "Empowering Real Estate", Description: "Our dashboard unifies every property, lead, and chat so you can focus on deals, not data entry."},
			{Title: "Human + Machine Synergy", Description: "AI should amplify human relationships and help brokers connect faster."},
		},
		Features: []Feature{
			{Title: "AI-Powered Assistant", Description: "Add or edit listings instantly through chat. The assistant handles formatting, details, and uploads."},
			{Title: "Smart Property Dashboard", Description: "View, manage, and filter all your properties in one dashboard."},
			{Title: "Analytics & Insights", Description: "Track performance, lead conversions, and top-performing listings."},
			{Title: "WhatsApp Automation", Description: "Handle customer conversations and property sharing directly through WhatsApp."},
			{Title: "Secure Cloud Storage", Description: "Client and property details are encrypted and stored safely."},
			{Title: "Team Collaboration", Description: "Invite teammates, assign properties, and collaborate on leads."},
		},
		Steps: []Feature{
			{Title: "Send your listing on WhatsApp", Description: "Share photos and details with the assistant."},
			{Title: "We structure it", Description: "The listing is cleaned up, described, and published to your dashboard."},
			{Title: "Buyers unlock your contact", Description: "Marketplace visitors spend a credit to reach you directly."},
		},
		HostcarePlan: []Feature{
			{Title: "List Your Property", Description: "Share property details and we take care of everything else."},
			{Title: "We Manage Everything", Description: "From finding tenants to collecting rent, we handle it all."},
			{Title: "Relax & Earn", Description: "Enjoy consistent rental income and zero management stress."},
		},
		CreditPacks: []CreditPack{
			{Credits: 1, Amount: 49, Label: "Single unlock"},
			{Credits: 5, Amount: 199, Label: "Starter pack"},
			{Credits: 10, Amount: 349, Label: "Pro pack"},
		},
	}
}

// LoadSiteContent loads the site content from a YAML file. A missing file keeps the defaults.
func LoadSiteContent(path string) error {
	siteLock.Lock()
	defer siteLock.Unlock()

	content := DefaultSiteContent()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			siteContent = &content
			return nil
		}
		return fmt.Errorf("failed to read site content: %w", err)
	}

	if err := yaml.Unmarshal(data, &content); err != nil {
		return fmt.Errorf("failed to parse site content: %w", err)
	}

	for _, pack := range content.CreditPacks {
		if pack.Credits <= 0 || pack.Amount <= 0 {
			return fmt.Errorf("invalid credit pack %+v: credits and amount must be positive", pack)
		}
	}

	siteContent = &content
	return nil
}

// GetSiteContent returns the loaded content, or the defaults if nothing was loaded
func GetSiteContent() SiteContent {
	siteLock.RLock()
	defer siteLock.RUnlock()

	if siteContent == nil {
		return DefaultSiteContent()
	}
	return *siteContent
}

// FindCreditPack returns the pack priced at amount rupees
func FindCreditPack(amount int) (CreditPack, bool) {
	for _, pack := range GetSiteContent().CreditPacks {
		if pack.Amount == amount {
			return pack, true
		}
	}
	return CreditPack{}, false
}
