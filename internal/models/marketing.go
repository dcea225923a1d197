package models

import (
	"time"

	"gorm.io/gorm"
)

// SubscriberStatus defines whether a subscriber receives campaigns.
type SubscriberStatus string

const (
	// SubscriberStatusActive indicates an opted-in subscriber.
	SubscriberStatusActive SubscriberStatus = "active"
	// SubscriberStatusUnsubscribed indicates the subscriber opted out.
	SubscriberStatusUnsubscribed SubscriberStatus = "unsubscribed"
)

// Subscriber is a newsletter recipient scoped to a store.
type Subscriber struct {
	ID             string           `gorm:"primaryKey;size:36" json:"id"`
	StoreID        string           `gorm:"size:36;not null;index:idx_subscribers_store_email" json:"store_id"`
	Email          string           `gorm:"size:255;not null;index:idx_subscribers_store_email" json:"email"`
	Name           string           `gorm:"size:120" json:"name"`
	Tags           StringList       `gorm:"type:text" json:"tags,omitempty"`
	Status         SubscriberStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	SubscribedAt   time.Time        `json:"subscribed_at"`
	UnsubscribedAt *time.Time       `json:"unsubscribed_at,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// BeforeCreate assigns an ID and stamps the subscription time.
func (s *Subscriber) BeforeCreate(tx *gorm.DB) error {
	ensureID(tx, &s.ID)
	if s.SubscribedAt.IsZero() {
		s.SubscribedAt = time.Now().UTC()
	}
	return nil
}

// CampaignStatus defines the lifecycle state of an email campaign.
type CampaignStatus string

const (
	// CampaignStatusDraft indicates a campaign being edited.
	CampaignStatusDraft CampaignStatus = "draft"
	// CampaignStatusScheduled indicates a campaign queued for sending.
	CampaignStatusScheduled CampaignStatus = "scheduled"
	// CampaignStatusSent indicates a campaign that was delivered.
	CampaignStatusSent CampaignStatus = "sent"
)

// CampaignStats tracks delivery outcomes. Always zeroed on create; counts
// are updated by the sending pipeline, never by API clients.
type CampaignStats struct {
	Sent         int64 `gorm:"not null;default:0" json:"sent"`
	Opened       int64 `gorm:"not null;default:0" json:"opened"`
	Clicked      int64 `gorm:"not null;default:0" json:"clicked"`
	Bounced      int64 `gorm:"not null;default:0" json:"bounced"`
	Unsubscribed int64 `gorm:"not null;default:0" json:"unsubscribed"`
}

// EmailCampaign is a marketing email draft or send record for a store.
type EmailCampaign struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	StoreID     string         `gorm:"size:36;not null;index" json:"store_id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Subject     string         `gorm:"size:255" json:"subject"`
	Body        string         `gorm:"type:text" json:"body"`
	SegmentTags StringList     `gorm:"type:text" json:"segment_tags,omitempty"`
	Status      CampaignStatus `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	ScheduledAt *time.Time     `json:"scheduled_at,omitempty"`
	SentAt      *time.Time     `json:"sent_at,omitempty"`
	Stats       CampaignStats  `gorm:"embedded;embeddedPrefix:stats_" json:"stats"`
	CreatedBy   string         `gorm:"size:36" json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// BeforeCreate assigns an opaque ID when none was provided.
func (c *EmailCampaign) BeforeCreate(tx *gorm.DB) error {
	ensureID(tx, &c.ID)
	return nil
}
