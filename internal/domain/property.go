package domain

import "time"

type Property struct {
	PropertyID    string    `json:"id" dynamodbav:"property_id"`
	Title         string    `json:"title" dynamodbav:"title"`
	Type          string    `json:"type" dynamodbav:"type"`
	Price         float64   `json:"price" dynamodbav:"price"`
	State         string    `json:"state" dynamodbav:"state"`
	City          string    `json:"city" dynamodbav:"city"`
	AreaSqFt      float64   `json:"areaSqFt" dynamodbav:"area_sqft"`
	Bedrooms      int       `json:"bedrooms" dynamodbav:"bedrooms"`
	Bathrooms     int       `json:"bathrooms" dynamodbav:"bathrooms"`
	Amenities     []string  `json:"amenities" dynamodbav:"amenities"`
	Furnished     bool      `json:"furnished" dynamodbav:"furnished"`
	AvailableFrom time.Time `json:"availableFrom" dynamodbav:"available_from"`
	ListedBy      string    `json:"listedBy" dynamodbav:"listed_by"`
	Tags          []string  `json:"tags" dynamodbav:"tags"`
	ColorTheme    string    `json:"colorTheme,omitempty" dynamodbav:"color_theme"`
	Rating        float64   `json:"rating,omitempty" dynamodbav:"rating"`
	IsVerified    bool      `json:"isVerified" dynamodbav:"is_verified"`
	ListingType   string    `json:"listingType" dynamodbav:"listing_type"`
	Photos        []string  `json:"photos,omitempty" dynamodbav:"photos"`
	CreatedBy     string    `json:"createdBy" dynamodbav:"created_by"`
	CreatedAt     time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

type CreatePropertyRequest struct {
	Title         string   `json:"title" validate:"required"`
	Type          string   `json:"type" validate:"required"`
	Price         float64  `json:"price" validate:"required,gt=0"`
	State         string   `json:"state" validate:"required"`
	City          string   `json:"city" validate:"required"`
	AreaSqFt      float64  `json:"areaSqFt" validate:"required,gt=0"`
	Bedrooms      int      `json:"bedrooms" validate:"gte=0"`
	Bathrooms     int      `json:"bathrooms" validate:"gte=0"`
	Amenities     []string `json:"amenities"`
	Furnished     bool     `json:"furnished"`
	AvailableFrom string   `json:"availableFrom" validate:"required"` // YYYY-MM-DD
	ListedBy      string   `json:"listedBy" validate:"required"`
	Tags          []string `json:"tags"`
	ColorTheme    string   `json:"colorTheme"`
	Rating        float64  `json:"rating" validate:"gte=0,lte=5"`
	ListingType   string   `json:"listingType" validate:"required,oneof=rent sale"`
}

type UpdatePropertyRequest struct {
	Title         *string   `json:"title"`
	Type          *string   `json:"type"`
	Price         *float64  `json:"price" validate:"omitempty,gt=0"`
	State         *string   `json:"state"`
	City          *string   `json:"city"`
	AreaSqFt      *float64  `json:"areaSqFt" validate:"omitempty,gt=0"`
	Bedrooms      *int      `json:"bedrooms" validate:"omitempty,gte=0"`
	Bathrooms     *int      `json:"bathrooms" validate:"omitempty,gte=0"`
	Amenities     *[]string `json:"amenities"`
	Furnished     *bool     `json:"furnished"`
	AvailableFrom *string   `json:"availableFrom"` // YYYY-MM-DD
	ListedBy      *string   `json:"listedBy"`
	Tags          *[]string `json:"tags"`
	ColorTheme    *string   `json:"colorTheme"`
	Rating        *float64  `json:"rating" validate:"omitempty,gte=0,lte=5"`
	IsVerified    *bool     `json:"isVerified"`
	ListingType   *string   `json:"listingType" validate:"omitempty,oneof=rent sale"`
}

// PropertySearchFilter holds the optional attribute filters for property
// search. Numeric fields are bounds: MaxPrice is $lte, MinAreaSqFt is $gte.
// Search results are never cached.
type PropertySearchFilter struct {
	City        string
	State       string
	Type        string
	MaxPrice    *float64
	Bedrooms    *int
	Bathrooms   *int
	MinAreaSqFt *float64
	Furnished   *bool
	IsVerified  *bool
	ListingType string
}
