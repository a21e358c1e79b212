// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tswanson-dev/marketscope/internal/logging"
	"github.com/tswanson-dev/marketscope/internal/metrics"
)

// SeedResult reports the outcome of seeding one table.
type SeedResult struct {
	Table    string `json:"table"`
	Inserted int64  `json:"inserted"`
	Failed   int64  `json:"failed"`
	Skipped  bool   `json:"skipped"` // table already had rows
}

// seedSpec holds the reference rows for one table.
type seedSpec struct {
	table   string
	columns []string
	rows    [][]interface{}
}

// SeedAll seeds every empty table with the bundled reference dataset.
// With force, reference tables are cleared and reseeded. Success per the
// seeding invariant means every table ends with row count > 0; tables that
// end empty are reported in the returned error.
func (db *DB) SeedAll(ctx context.Context, force bool) ([]SeedResult, error) {
	results := make([]SeedResult, 0, len(TableNames))
	var emptyTables []string

	for _, spec := range referenceSeeds() {
		if force {
			//nolint:gosec // table name is from the static seed list
			if _, err := db.conn.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", spec.table)); err != nil {
				return results, fmt.Errorf("failed to clear %s for reseed: %w", spec.table, err)
			}
		}

		result, err := db.seedTable(ctx, spec)
		if err != nil {
			return results, err
		}
		results = append(results, result)

		count, err := db.CountRows(ctx, spec.table)
		if err != nil {
			return results, err
		}
		if count == 0 {
			emptyTables = append(emptyTables, spec.table)
		}
	}

	if len(emptyTables) > 0 {
		return results, fmt.Errorf("seeding left tables empty: %s", strings.Join(emptyTables, ", "))
	}
	return results, nil
}

// SeedTableByName seeds a single table if it is empty. Used by the loader
// when reconciliation finds an individual table without rows.
func (db *DB) SeedTableByName(ctx context.Context, table string) (SeedResult, error) {
	for _, spec := range referenceSeeds() {
		if spec.table == table {
			return db.seedTable(ctx, spec)
		}
	}
	return SeedResult{}, fmt.Errorf("no reference data for table %q", table)
}

// seedTable inserts the reference rows for one table. Bulk multi-row INSERT
// first; on failure falls back to row-at-a-time inserts, skipping and
// counting rows that still fail. ON CONFLICT DO NOTHING keeps re-runs
// idempotent.
func (db *DB) seedTable(ctx context.Context, spec seedSpec) (SeedResult, error) {
	result := SeedResult{Table: spec.table}

	count, err := db.CountRows(ctx, spec.table)
	if err != nil {
		return result, err
	}
	if count > 0 {
		result.Skipped = true
		logging.Debug().Str("table", spec.table).Int64("rows", count).Msg("Table already seeded, skipping")
		return result, nil
	}

	start := time.Now()
	inserted, err := db.bulkInsert(ctx, spec)
	if err == nil {
		result.Inserted = inserted
		metrics.SeedRowsInserted.WithLabelValues(spec.table).Add(float64(inserted))
		metrics.ObserveDBQuery("seed", spec.table, start, nil)
		logging.Info().Str("table", spec.table).Int64("rows", inserted).Msg("Seeded reference rows")
		return result, nil
	}

	metrics.SeedFallbacks.Inc()
	logging.Warn().Str("table", spec.table).Err(err).Msg("Bulk insert failed, falling back to per-row inserts")

	result.Inserted, result.Failed = db.perRowInsert(ctx, spec)
	metrics.SeedRowsInserted.WithLabelValues(spec.table).Add(float64(result.Inserted))
	metrics.SeedRowsFailed.WithLabelValues(spec.table).Add(float64(result.Failed))
	metrics.ObserveDBQuery("seed", spec.table, start, nil)

	if result.Failed > 0 {
		logging.Warn().Str("table", spec.table).
			Int64("inserted", result.Inserted).
			Int64("failed", result.Failed).
			Msg("Partial seed")
	}
	return result, nil
}

// bulkInsert executes one multi-row INSERT for all reference rows.
func (db *DB) bulkInsert(ctx context.Context, spec seedSpec) (int64, error) {
	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?,", len(spec.columns)), ",") + ")"
	placeholders := make([]string, len(spec.rows))
	args := make([]interface{}, 0, len(spec.rows)*len(spec.columns))
	for i, row := range spec.rows {
		placeholders[i] = placeholder
		args = append(args, row...)
	}

	//nolint:gosec // table and column names are from the static seed list
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s ON CONFLICT DO NOTHING",
		spec.table, strings.Join(spec.columns, ", "), strings.Join(placeholders, ", "))

	res, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return int64(len(spec.rows)), nil //nolint:nilerr // driver may not report affected rows
	}
	return affected, nil
}

// perRowInsert inserts rows one at a time, counting failures instead of
// aborting. A single bad row must not block the rest of the dataset.
func (db *DB) perRowInsert(ctx context.Context, spec seedSpec) (inserted, failed int64) {
	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?,", len(spec.columns)), ",") + ")"
	//nolint:gosec // table and column names are from the static seed list
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s ON CONFLICT DO NOTHING",
		spec.table, strings.Join(spec.columns, ", "), placeholder)

	for _, row := range spec.rows {
		if _, err := db.conn.ExecContext(ctx, query, row...); err != nil {
			failed++
			logging.Debug().Str("table", spec.table).Err(err).Msg("Row insert failed")
			continue
		}
		inserted++
	}
	return inserted, failed
}

// Reference dataset. Market sizes are USD billions (metro markets in USD
// millions), growth rates in percent. Category ids are fixed so procedure
// rows can reference them.
const (
	catPreventive = iota + 1
	catRestorative
	catOrthodontics
	catCosmeticDental
	catOralSurgery
	catImplants
	catInjectables
	catLaser
	catBodyContouring
	catSkinRejuvenation
	catSurgicalAesthetics
	catHairRestoration
)

func referenceSeeds() []seedSpec {
	return []seedSpec{
		categorySeed(),
		procedureSeed(),
		companySeed(),
		growthSeed(),
		demographicsSeed(),
		metroSeed(),
		newsSeed(),
	}
}

func categorySeed() seedSpec {
	return seedSpec{
		table:   "categories",
		columns: []string{"id", "name", "industry", "description"},
		rows: [][]interface{}{
			{catPreventive, "Preventive Care", "dental", "Cleanings, exams, sealants, and fluoride treatments"},
			{catRestorative, "Restorative Dentistry", "dental", "Fillings, crowns, bridges, and root canals"},
			{catOrthodontics, "Orthodontics", "dental", "Braces and clear aligner therapy"},
			{catCosmeticDental, "Cosmetic Dentistry", "dental", "Whitening, veneers, and smile design"},
			{catOralSurgery, "Oral Surgery", "dental", "Extractions and maxillofacial procedures"},
			{catImplants, "Dental Implants", "dental", "Implant placement and restoration"},
			{catInjectables, "Injectables", "aesthetic", "Neurotoxins and dermal fillers"},
			{catLaser, "Laser & Energy Devices", "aesthetic", "Laser hair removal, IPL, and RF treatments"},
			{catBodyContouring, "Body Contouring", "aesthetic", "Liposuction, cryolipolysis, and skin tightening"},
			{catSkinRejuvenation, "Skin Rejuvenation", "aesthetic", "Chemical peels, microneedling, and facials"},
			{catSurgicalAesthetics, "Surgical Aesthetics", "aesthetic", "Rhinoplasty, blepharoplasty, and lifts"},
			{catHairRestoration, "Hair Restoration", "aesthetic", "Transplants and PRP therapy"},
		},
	}
}

func procedureSeed() seedSpec {
	type proc struct {
		name       string
		categoryID int
		industry   string
		growth     float64
		size2025   float64
		size2030   float64
		avgCost    float64
		rank       int
		desc       string
	}
	procs := []proc{
		{"Dental Cleaning & Exam", catPreventive, "dental", 4.2, 32.5, 40.1, 180, 1, "Routine prophylaxis and oral examination"},
		{"Fluoride Treatment", catPreventive, "dental", 3.8, 4.1, 5.0, 45, 14, "Topical fluoride application"},
		{"Dental Sealants", catPreventive, "dental", 4.5, 2.3, 2.9, 55, 20, "Protective resin coating for molars"},
		{"Composite Fillings", catRestorative, "dental", 5.1, 18.7, 24.0, 250, 3, "Tooth-colored cavity restoration"},
		{"Dental Crowns", catRestorative, "dental", 5.4, 12.4, 16.2, 1300, 6, "Full-coverage tooth restoration"},
		{"Root Canal Therapy", catRestorative, "dental", 4.8, 9.8, 12.4, 1100, 9, "Endodontic treatment of infected pulp"},
		{"Clear Aligners", catOrthodontics, "dental", 14.2, 6.9, 13.4, 4500, 2, "Removable transparent orthodontic trays"},
		{"Traditional Braces", catOrthodontics, "dental", 3.1, 11.2, 13.0, 5500, 8, "Fixed bracket and wire orthodontics"},
		{"Lingual Braces", catOrthodontics, "dental", 6.7, 1.8, 2.5, 9500, 26, "Brackets bonded behind the teeth"},
		{"Teeth Whitening", catCosmeticDental, "dental", 8.9, 7.4, 11.3, 450, 4, "In-office and take-home bleaching"},
		{"Porcelain Veneers", catCosmeticDental, "dental", 7.6, 5.2, 7.5, 1800, 10, "Thin ceramic facings for front teeth"},
		{"Cosmetic Bonding", catCosmeticDental, "dental", 6.2, 2.9, 3.9, 400, 18, "Direct resin reshaping"},
		{"Wisdom Tooth Extraction", catOralSurgery, "dental", 3.6, 6.8, 8.1, 650, 7, "Third molar removal"},
		{"Bone Grafting", catOralSurgery, "dental", 7.9, 3.4, 5.0, 2200, 16, "Ridge augmentation before implants"},
		{"Corrective Jaw Surgery", catOralSurgery, "dental", 4.4, 2.6, 3.2, 24000, 24, "Orthognathic realignment"},
		{"Single Dental Implant", catImplants, "dental", 9.8, 10.6, 16.9, 4200, 5, "Titanium root with crown restoration"},
		{"All-on-4 Implants", catImplants, "dental", 11.3, 4.7, 8.0, 24000, 12, "Full-arch fixed implant bridge"},
		{"Implant-Supported Dentures", catImplants, "dental", 8.4, 3.8, 5.7, 14000, 15, "Removable overdenture on implants"},
		{"Botulinum Toxin Injections", catInjectables, "aesthetic", 9.6, 9.9, 15.7, 550, 1, "Neurotoxin wrinkle relaxation"},
		{"Hyaluronic Acid Fillers", catInjectables, "aesthetic", 10.4, 7.2, 11.8, 750, 2, "Volume restoration and contouring"},
		{"Biostimulatory Fillers", catInjectables, "aesthetic", 12.1, 2.4, 4.2, 950, 13, "Collagen-stimulating injectables"},
		{"Laser Hair Removal", catLaser, "aesthetic", 11.8, 4.6, 8.0, 285, 3, "Diode and alexandrite epilation"},
		{"IPL Photofacial", catLaser, "aesthetic", 8.7, 2.8, 4.3, 400, 9, "Intense pulsed light for pigment and redness"},
		{"RF Skin Tightening", catLaser, "aesthetic", 13.5, 2.1, 4.0, 1200, 11, "Radiofrequency dermal heating"},
		{"Liposuction", catBodyContouring, "aesthetic", 7.2, 5.5, 7.8, 3600, 5, "Surgical fat removal"},
		{"Cryolipolysis", catBodyContouring, "aesthetic", 12.7, 1.9, 3.5, 1500, 8, "Non-invasive fat freezing"},
		{"Abdominoplasty", catBodyContouring, "aesthetic", 5.9, 3.2, 4.3, 8200, 12, "Tummy tuck with muscle repair"},
		{"Chemical Peels", catSkinRejuvenation, "aesthetic", 7.8, 2.2, 3.2, 350, 7, "Controlled exfoliation for texture and tone"},
		{"Microneedling", catSkinRejuvenation, "aesthetic", 13.9, 1.7, 3.3, 400, 6, "Collagen induction therapy"},
		{"Hydrafacial", catSkinRejuvenation, "aesthetic", 15.2, 1.4, 2.8, 225, 4, "Vortex hydradermabrasion"},
		{"Rhinoplasty", catSurgicalAesthetics, "aesthetic", 5.3, 4.8, 6.2, 8800, 10, "Surgical nose reshaping"},
		{"Blepharoplasty", catSurgicalAesthetics, "aesthetic", 6.1, 3.1, 4.2, 4600, 14, "Eyelid lift"},
		{"Facelift", catSurgicalAesthetics, "aesthetic", 4.7, 3.9, 4.9, 12500, 15, "Rhytidectomy"},
		{"FUE Hair Transplant", catHairRestoration, "aesthetic", 14.8, 3.0, 6.0, 9000, 16, "Follicular unit extraction"},
		{"PRP Hair Therapy", catHairRestoration, "aesthetic", 16.3, 1.1, 2.4, 1800, 17, "Platelet-rich plasma scalp injections"},
		{"Scalp Micropigmentation", catHairRestoration, "aesthetic", 9.4, 0.6, 1.0, 2800, 18, "Cosmetic follicle tattooing"},
	}

	rows := make([][]interface{}, len(procs))
	for i, p := range procs {
		rows[i] = []interface{}{
			uuid.New().String(), p.name, p.categoryID, p.industry,
			p.growth, p.size2025, p.size2030, p.avgCost, p.rank, p.desc,
		}
	}
	return seedSpec{
		table: "procedures",
		columns: []string{
			"id", "name", "category_id", "industry", "growth_rate",
			"market_size_2025", "projected_size_2030", "avg_cost",
			"popularity_rank", "description",
		},
		rows: rows,
	}
}

func companySeed() seedSpec {
	type co struct {
		name     string
		industry string
		segment  string
		share    float64
		revenue  float64
		hq       string
		founded  int
		staff    int
	}
	companies := []co{
		{"Align Technology", "dental", "Clear Aligners", 18.4, 4.0, "Tempe, AZ", 1997, 23500},
		{"Dentsply Sirona", "dental", "Equipment & Consumables", 14.2, 3.9, "Charlotte, NC", 1899, 15000},
		{"Straumann Group", "dental", "Implants", 11.8, 2.8, "Basel, Switzerland", 1954, 11000},
		{"Envista Holdings", "dental", "Equipment & Consumables", 8.6, 2.5, "Brea, CA", 2019, 12000},
		{"Henry Schein", "dental", "Distribution", 7.9, 12.6, "Melville, NY", 1932, 25000},
		{"3M Oral Care", "dental", "Consumables", 6.4, 1.3, "St. Paul, MN", 1902, 4000},
		{"Zimmer Biomet Dental", "dental", "Implants", 4.8, 0.9, "Palm Beach Gardens, FL", 1927, 2800},
		{"Planmeca", "dental", "Imaging", 3.7, 0.8, "Helsinki, Finland", 1971, 2900},
		{"Allergan Aesthetics", "aesthetic", "Injectables", 24.6, 5.9, "Irvine, CA", 1950, 10000},
		{"Galderma", "aesthetic", "Injectables", 16.2, 4.1, "Zug, Switzerland", 1981, 6500},
		{"Merz Aesthetics", "aesthetic", "Injectables", 8.9, 1.4, "Raleigh, NC", 1908, 3200},
		{"InMode", "aesthetic", "Energy Devices", 6.1, 0.5, "Yokneam, Israel", 2008, 1100},
		{"Cutera", "aesthetic", "Energy Devices", 4.3, 0.25, "Brisbane, CA", 1998, 900},
		{"Cynosure Lutronic", "aesthetic", "Energy Devices", 4.0, 0.4, "Westford, MA", 1991, 1500},
		{"Revance Therapeutics", "aesthetic", "Injectables", 3.2, 0.23, "Nashville, TN", 1999, 800},
		{"Sisram Medical", "aesthetic", "Energy Devices", 2.8, 0.36, "Caesarea, Israel", 2013, 1000},
	}

	rows := make([][]interface{}, len(companies))
	for i, c := range companies {
		rows[i] = []interface{}{
			uuid.New().String(), c.name, c.industry, c.segment,
			c.share, c.revenue, c.hq, c.founded, c.staff,
		}
	}
	return seedSpec{
		table: "companies",
		columns: []string{
			"id", "name", "industry", "segment", "market_share",
			"annual_revenue", "headquarters", "founded_year", "employee_count",
		},
		rows: rows,
	}
}

func growthSeed() seedSpec {
	type point struct {
		industry string
		year     int
		size     float64
		growth   float64
	}
	points := []point{
		{"dental", 2019, 134.8, 4.1},
		{"dental", 2020, 121.4, -9.9},
		{"dental", 2021, 142.6, 17.5},
		{"dental", 2022, 151.9, 6.5},
		{"dental", 2023, 160.8, 5.9},
		{"dental", 2024, 169.5, 5.4},
		{"dental", 2025, 178.9, 5.5},
		{"aesthetic", 2019, 52.5, 8.2},
		{"aesthetic", 2020, 46.8, -10.9},
		{"aesthetic", 2021, 57.3, 22.4},
		{"aesthetic", 2022, 63.4, 10.6},
		{"aesthetic", 2023, 69.9, 10.3},
		{"aesthetic", 2024, 76.8, 9.9},
		{"aesthetic", 2025, 84.3, 9.8},
	}

	rows := make([][]interface{}, len(points))
	for i, p := range points {
		rows[i] = []interface{}{p.industry, p.year, p.size, p.growth}
	}
	return seedSpec{
		table:   "market_growth",
		columns: []string{"industry", "year", "market_size", "growth_rate"},
		rows:    rows,
	}
}

func demographicsSeed() seedSpec {
	type seg struct {
		industry string
		age      string
		gender   string
		share    float64
		spend    float64
	}
	segments := []seg{
		{"dental", "18-24", "all", 9.5, 310},
		{"dental", "25-34", "all", 16.8, 520},
		{"dental", "35-44", "all", 18.2, 640},
		{"dental", "45-54", "all", 19.6, 780},
		{"dental", "55-64", "all", 18.4, 890},
		{"dental", "65+", "all", 17.5, 1040},
		{"aesthetic", "18-24", "all", 11.2, 480},
		{"aesthetic", "25-34", "all", 24.7, 1150},
		{"aesthetic", "35-44", "all", 26.3, 1620},
		{"aesthetic", "45-54", "all", 20.1, 1840},
		{"aesthetic", "55-64", "all", 12.4, 1390},
		{"aesthetic", "65+", "all", 5.3, 760},
	}

	rows := make([][]interface{}, len(segments))
	for i, s := range segments {
		rows[i] = []interface{}{s.industry, s.age, s.gender, s.share, s.spend}
	}
	return seedSpec{
		table:   "demographics",
		columns: []string{"industry", "age_group", "gender", "share", "spend_per_capita"},
		rows:    rows,
	}
}

func metroSeed() seedSpec {
	type metro struct {
		area       string
		state      string
		industry   string
		size       float64 // USD millions
		growth     float64
		providers  int
		population int
	}
	metros := []metro{
		{"New York-Newark-Jersey City", "NY", "dental", 9840, 4.8, 14200, 19500000},
		{"New York-Newark-Jersey City", "NY", "aesthetic", 4120, 9.4, 3900, 19500000},
		{"Los Angeles-Long Beach-Anaheim", "CA", "dental", 7230, 5.2, 11600, 12800000},
		{"Los Angeles-Long Beach-Anaheim", "CA", "aesthetic", 4890, 11.2, 4600, 12800000},
		{"Chicago-Naperville-Elgin", "IL", "dental", 4560, 3.9, 7800, 9400000},
		{"Chicago-Naperville-Elgin", "IL", "aesthetic", 1780, 8.1, 1700, 9400000},
		{"Dallas-Fort Worth-Arlington", "TX", "dental", 3920, 6.4, 6400, 7900000},
		{"Dallas-Fort Worth-Arlington", "TX", "aesthetic", 1950, 10.8, 1900, 7900000},
		{"Houston-The Woodlands-Sugar Land", "TX", "dental", 3410, 6.1, 5600, 7300000},
		{"Houston-The Woodlands-Sugar Land", "TX", "aesthetic", 1680, 10.2, 1600, 7300000},
		{"Miami-Fort Lauderdale-Pompano Beach", "FL", "dental", 3180, 5.7, 5300, 6200000},
		{"Miami-Fort Lauderdale-Pompano Beach", "FL", "aesthetic", 2940, 12.6, 2800, 6200000},
		{"Phoenix-Mesa-Chandler", "AZ", "dental", 2480, 6.8, 4100, 5100000},
		{"Phoenix-Mesa-Chandler", "AZ", "aesthetic", 1320, 11.4, 1300, 5100000},
		{"Atlanta-Sandy Springs-Alpharetta", "GA", "dental", 2890, 5.9, 4800, 6200000},
		{"Atlanta-Sandy Springs-Alpharetta", "GA", "aesthetic", 1450, 10.1, 1400, 6200000},
		{"Seattle-Tacoma-Bellevue", "WA", "dental", 2310, 5.1, 3900, 4100000},
		{"Seattle-Tacoma-Bellevue", "WA", "aesthetic", 1080, 9.2, 1000, 4100000},
		{"Denver-Aurora-Lakewood", "CO", "dental", 1840, 5.6, 3100, 3000000},
		{"Denver-Aurora-Lakewood", "CO", "aesthetic", 920, 9.8, 900, 3000000},
	}

	rows := make([][]interface{}, len(metros))
	for i, m := range metros {
		rows[i] = []interface{}{m.area, m.state, m.industry, m.size, m.growth, m.providers, m.population}
	}
	return seedSpec{
		table: "metro_markets",
		columns: []string{
			"metro_area", "state", "industry", "market_size",
			"growth_rate", "provider_count", "population",
		},
		rows: rows,
	}
}

func newsSeed() seedSpec {
	type article struct {
		title    string
		source   string
		url      string
		industry string
		category string
		summary  string
		daysAgo  int
	}
	articles := []article{
		{"Clear aligner shipments hit record quarter", "Dental Tribune", "https://news.example.com/dental/clear-aligner-record", "dental", "orthodontics", "Direct-to-consumer and in-office aligner volumes both grew double digits.", 2},
		{"FDA clears next-generation intraoral scanner", "Dentistry Today", "https://news.example.com/dental/intraoral-scanner-clearance", "dental", "technology", "New scanner promises sub-20-micron accuracy for restorative workflows.", 5},
		{"DSO consolidation accelerates in sunbelt metros", "Group Dentistry Now", "https://news.example.com/dental/dso-consolidation", "dental", "business", "Private equity-backed groups added 400 practices last quarter.", 9},
		{"Teledentistry reimbursement expands in 12 states", "ADA News", "https://news.example.com/dental/teledentistry-reimbursement", "dental", "policy", "Parity laws now cover asynchronous consults in most regions.", 14},
		{"Implant titanium alternatives show promise in trials", "Journal of Oral Implantology", "https://news.example.com/dental/zirconia-implant-trials", "dental", "research", "Zirconia fixtures matched osseointegration benchmarks at 24 months.", 21},
		{"Neurotoxin market sees new entrant pricing pressure", "Aesthetic Authority", "https://news.example.com/aesthetic/neurotoxin-pricing", "aesthetic", "injectables", "Fourth US toxin approval compresses per-unit pricing.", 1},
		{"Regenerative aesthetics named top trend for 2026", "Modern Aesthetics", "https://news.example.com/aesthetic/regenerative-trend", "aesthetic", "trends", "Exosomes and biostimulators dominate congress agendas.", 4},
		{"Med-spa openings outpace dermatology clinics 3 to 1", "MedEsthetics", "https://news.example.com/aesthetic/medspa-growth", "aesthetic", "business", "Franchise models drive expansion into secondary metros.", 8},
		{"GLP-1 weight loss drugs reshape body contouring demand", "Plastic Surgery News", "https://news.example.com/aesthetic/glp1-contouring", "aesthetic", "body-contouring", "Skin laxity treatments surge as injectable weight loss adoption grows.", 12},
		{"Male aesthetics segment grows fastest on record", "The Aesthetic Guide", "https://news.example.com/aesthetic/male-segment", "aesthetic", "demographics", "Men now account for a record share of minimally invasive treatments.", 18},
	}

	now := time.Now().UTC()
	rows := make([][]interface{}, len(articles))
	for i, a := range articles {
		rows[i] = []interface{}{
			uuid.New().String(), a.title, a.source, a.url, a.industry,
			a.category, a.summary, now.AddDate(0, 0, -a.daysAgo), now,
		}
	}
	return seedSpec{
		table: "news_articles",
		columns: []string{
			"id", "title", "source", "url", "industry", "category",
			"summary", "published_at", "fetched_at",
		},
		rows: rows,
	}
}
