package store

import (
	"sync"

	"github.com/guardianads/pulse/internal/models"
)

// Repository hands the engine a read-only snapshot of raw records per
// domain. Aggregation never mutates what it loads.
type Repository interface {
	Campaigns() []models.CampaignRecord
	Keywords() []models.KeywordRecord
	SearchTerms() []models.SearchTermRecord
	Ads() []models.AdRecord
	Geo() []models.GeoRecord
	Devices() []models.DeviceRecord
	Hourly() []models.HourlyRecord
	QualityScores() []models.QualityScoreRecord
	Conversions() []models.ConversionRecord
	LandingPages() []models.LandingPageRecord
	AuctionInsights() []models.AuctionInsightRecord
}

// MemoryStore keeps the ingested raw records per domain. Writers append
// under the lock; readers get copies so aggregation can run on an
// immutable snapshot while ingestion continues.
type MemoryStore struct {
	mu   sync.RWMutex
	seen map[string]struct{} // per-record idempotency

	campaigns    []models.CampaignRecord
	keywords     []models.KeywordRecord
	searchTerms  []models.SearchTermRecord
	ads          []models.AdRecord
	geo          []models.GeoRecord
	devices      []models.DeviceRecord
	hourly       []models.HourlyRecord
	quality      []models.QualityScoreRecord
	conversions  []models.ConversionRecord
	landingPages []models.LandingPageRecord
	auction      []models.AuctionInsightRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seen: make(map[string]struct{})}
}

// MarkSeen returns false when the key was already ingested.
func (s *MemoryStore) MarkSeen(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

func (s *MemoryStore) AddCampaigns(recs ...models.CampaignRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns = append(s.campaigns, recs...)
}

func (s *MemoryStore) AddKeywords(recs ...models.KeywordRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keywords = append(s.keywords, recs...)
}

func (s *MemoryStore) AddSearchTerms(recs ...models.SearchTermRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchTerms = append(s.searchTerms, recs...)
}

func (s *MemoryStore) AddAds(recs ...models.AdRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ads = append(s.ads, recs...)
}

func (s *MemoryStore) AddGeo(recs ...models.GeoRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.geo = append(s.geo, recs...)
}

func (s *MemoryStore) AddDevices(recs ...models.DeviceRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices = append(s.devices, recs...)
}

func (s *MemoryStore) AddHourly(recs ...models.HourlyRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hourly = append(s.hourly, recs...)
}

func (s *MemoryStore) AddQualityScores(recs ...models.QualityScoreRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quality = append(s.quality, recs...)
}

func (s *MemoryStore) AddConversions(recs ...models.ConversionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversions = append(s.conversions, recs...)
}

func (s *MemoryStore) AddLandingPages(recs ...models.LandingPageRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.landingPages = append(s.landingPages, recs...)
}

func (s *MemoryStore) AddAuctionInsights(recs ...models.AuctionInsightRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auction = append(s.auction, recs...)
}

func (s *MemoryStore) Campaigns() []models.CampaignRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.CampaignRecord(nil), s.campaigns...)
}

func (s *MemoryStore) Keywords() []models.KeywordRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.KeywordRecord(nil), s.keywords...)
}

func (s *MemoryStore) SearchTerms() []models.SearchTermRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.SearchTermRecord(nil), s.searchTerms...)
}

func (s *MemoryStore) Ads() []models.AdRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.AdRecord(nil), s.ads...)
}

func (s *MemoryStore) Geo() []models.GeoRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.GeoRecord(nil), s.geo...)
}

func (s *MemoryStore) Devices() []models.DeviceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.DeviceRecord(nil), s.devices...)
}

func (s *MemoryStore) Hourly() []models.HourlyRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.HourlyRecord(nil), s.hourly...)
}

func (s *MemoryStore) QualityScores() []models.QualityScoreRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.QualityScoreRecord(nil), s.quality...)
}

func (s *MemoryStore) Conversions() []models.ConversionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ConversionRecord(nil), s.conversions...)
}

func (s *MemoryStore) LandingPages() []models.LandingPageRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.LandingPageRecord(nil), s.landingPages...)
}

func (s *MemoryStore) AuctionInsights() []models.AuctionInsightRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.AuctionInsightRecord(nil), s.auction...)
}
