package model

import "time"

// Space status values as stored in spaces.status.  A space starts its
// life in StatusPending when the owner registers it and only becomes
// bookable after it has been moved to StatusApproved by an out-of-band
// review step.  Rejected spaces stay visible to their owner only.
const (
    SpaceStatusPending  = "pending"
    SpaceStatusApproved = "approved"
    SpaceStatusRejected = "rejected"
)

// Space represents a bookable venue owned by a user.  Each space
// carries its own hourly price and a hard capacity ceiling used to
// validate incoming reservations.  This struct corresponds to a row
// in the `spaces` table.
//
// Fields:
//  ID                – primary key identifier.
//  OwnerID           – user ID of the space owner.
//  Name              – display name, unique per owner.
//  Description       – optional free-text description.
//  Location          – human-readable address or area.
//  Status            – approval status (pending, approved, rejected).
//  PricePerHourCents – hourly price in minor currency units.
//  MaxCapacity       – maximum number of attendees the space admits.
//  CreatedAt         – timestamp when the space was registered.
//  UpdatedAt         – timestamp of last update.
type Space struct {
    ID                uint64    // spaces.id
    OwnerID           uint64    // spaces.owner_id
    Name              string    // spaces.name
    Description       *string   // spaces.description (nullable)
    Location          string    // spaces.location
    Status            string    // spaces.status
    PricePerHourCents int64     // spaces.price_per_hour_cents
    MaxCapacity       uint32    // spaces.max_capacity
    CreatedAt         time.Time // spaces.created_at
    UpdatedAt         time.Time // spaces.updated_at
}

// Amenity is a feature attached to a space (wifi, parking, sound
// system, ...).  Amenities are grouped into coarse categories for
// display in the public catalog.
//
// Fields:
//  ID       – primary key identifier.
//  SpaceID  – space the amenity belongs to.
//  Name     – amenity label.
//  Category – display grouping (connectivity, comfort, equipment, general).
type Amenity struct {
    ID       uint64 // space_amenities.id
    SpaceID  uint64 // space_amenities.space_id
    Name     string // space_amenities.name
    Category string // space_amenities.category
}

// Photo holds the URL metadata of one picture of a space.  The binary
// content lives in external object storage; only the reference is kept
// here.
//
// Fields:
//  ID       – primary key identifier.
//  SpaceID  – space the photo belongs to.
//  URL      – absolute URL of the stored image.
//  Position – ordering index inside the space's gallery.
type Photo struct {
    ID       uint64 // space_photos.id
    SpaceID  uint64 // space_photos.space_id
    URL      string // space_photos.url
    Position uint32 // space_photos.position
}

// Review is a rating left by a user who booked a space.  Reviews feed
// the average-rating summary shown in the public catalog.
//
// Fields:
//  ID        – primary key identifier.
//  SpaceID   – space being reviewed.
//  UserID    – author of the review.
//  Rating    – integer score between 1 and 5.
//  Comment   – optional free-text comment.
//  CreatedAt – creation timestamp.
type Review struct {
    ID        uint64    // space_reviews.id
    SpaceID   uint64    // space_reviews.space_id
    UserID    uint64    // space_reviews.user_id
    Rating    uint8     // space_reviews.rating
    Comment   *string   // space_reviews.comment (nullable)
    CreatedAt time.Time // space_reviews.created_at
}
