package report

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDataLines(t *testing.T) []string {
	t.Helper()

	lecture := sampleValues()

	lab := sampleValues()
	lab[1], lab[2], lab[3] = "1801", "40395", "002"
	lab[6] = "B"
	lab[7] = "GEN CHEM LAB"
	lab[8], lab[9], lab[10] = "1.000", "18", "18"
	lab[14] = "0100-0350PM "

	// Continuation row: a second meeting pattern with blank identity fields.
	cont := sampleValues()
	cont[0], cont[1], cont[2], cont[3] = "", "", "", ""
	cont[8], cont[9], cont[10], cont[11], cont[12] = "", "", "", "", ""
	cont[13], cont[14] = "R", "0530-0820PM "

	return []string{
		testLine(t, lecture),
		testLine(t, lab),
		testLine(t, cont),
	}
}

func TestParseFixedWidth(t *testing.T) {
	p, err := NewParser(Options{Department: "CHE", RequireMetadata: true}, nil)
	require.NoError(t, err)

	res, err := p.Parse(strings.NewReader(buildReport(testDataLines(t))))
	require.NoError(t, err)

	assert.Equal(t, 12, res.LinesRead)
	assert.Equal(t, 0, res.Coercions)
	assert.Equal(t, "202530", res.Metadata.TermCode)

	ds := res.Dataset
	require.Equal(t, 3, ds.Len())
	assert.Equal(t, "40392", ds.At(0).CRN)
	assert.Equal(t, "09:00-09:50", ds.At(0).Time)
	assert.Equal(t, "13:00-15:50", ds.At(1).Time)
	assert.Equal(t, "", ds.At(2).CRN)
	assert.Equal(t, "17:30-20:20", ds.At(2).Time)
}

func TestParseFiltersOtherDepartments(t *testing.T) {
	mth := sampleValues()
	mth[0], mth[1], mth[2] = "MTH", "1110", "41000"
	data := append(testDataLines(t), testLine(t, mth))

	p, err := NewParser(Options{Department: "CHE"}, nil)
	require.NoError(t, err)

	res, err := p.Parse(strings.NewReader(buildReport(data)))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Dataset.Len())
}

func TestParseDetectsDepartmentFromHeader(t *testing.T) {
	mth := sampleValues()
	mth[0], mth[1], mth[2] = "MTH", "1110", "41000"

	lines := []string{
		"",
		"PAGE 1",
		"",
		"",
		"SWRCGSR MSU Denver Class Schedule Report 05-Feb-2025, 08:00 AM",
		"Subject: CHE -- General Chemistry",
		"Term: 202530 Spring 2025",
		testLine(t, sampleValues()),
		testLine(t, mth),
		"** TOTAL SECTIONS 2",
		"** END OF REPORT **",
	}
	input := strings.Join(lines, "\n") + "\n"

	p, err := NewParser(Options{}, nil)
	require.NoError(t, err)
	res, err := p.Parse(strings.NewReader(input))
	require.NoError(t, err)

	// The subject banner names CHE, so the MTH row is filtered out even
	// though no department was configured.
	require.Equal(t, 1, res.Dataset.Len())
	assert.Equal(t, "CHE", res.Dataset.At(0).Subject)

	// An explicit department still wins over the banner.
	p, err = NewParser(Options{Department: "MTH"}, nil)
	require.NoError(t, err)
	res, err = p.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 1, res.Dataset.Len())
	assert.Equal(t, "MTH", res.Dataset.At(0).Subject)
}

func TestParseBannerCSV(t *testing.T) {
	// GJIREVO wraps each physical line in CSV quoting; flattening must
	// recover the positional text before chunking.
	var quoted []string
	for _, line := range testDataLines(t) {
		quoted = append(quoted, `"`+line+`"`)
	}

	p, err := NewParser(Options{Dialect: DialectBannerCSV, Strict: true}, nil)
	require.NoError(t, err)

	res, err := p.Parse(strings.NewReader(buildReport(quoted)))
	require.NoError(t, err)
	// Strict mode drops the blank-CRN continuation row.
	require.Equal(t, 2, res.Dataset.Len())
	assert.Equal(t, "GENERAL CHEM", res.Dataset.At(0).Title)
}

func TestParseCoercionDegradesCell(t *testing.T) {
	bad := sampleValues()
	bad[2] = "40400"
	bad[10] = "**"
	data := append(testDataLines(t), testLine(t, bad))

	p, err := NewParser(Options{Department: "CHE"}, nil)
	require.NoError(t, err)

	res, err := p.Parse(strings.NewReader(buildReport(data)))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Coercions)

	rec := res.Dataset.At(3)
	assert.Equal(t, "40400", rec.CRN)
	assert.True(t, math.IsNaN(rec.Enrolled))
}

func TestParseEmptyInput(t *testing.T) {
	p, err := NewParser(Options{}, nil)
	require.NoError(t, err)

	_, err = p.Parse(strings.NewReader(""))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, StageRead, perr.Stage)
	assert.True(t, errors.Is(err, ErrEmptyInput))
}

func TestParseTooShort(t *testing.T) {
	p, err := NewParser(Options{}, nil)
	require.NoError(t, err)

	_, err = p.Parse(strings.NewReader("one\ntwo\nthree\n"))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, StageStructure, perr.Stage)
}

func TestParseMetadataOptional(t *testing.T) {
	// Without RequireMetadata a mangled header still yields the data rows.
	lines := strings.Split(buildReport(testDataLines(t)), "\n")
	lines[bannerLineNo-1] = "no banner today"

	p, err := NewParser(Options{Department: "CHE"}, nil)
	require.NoError(t, err)

	res, err := p.Parse(strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Dataset.Len())
	assert.Empty(t, res.Metadata.TermCode)

	// With RequireMetadata the same input fails up front.
	strictP, err := NewParser(Options{Department: "CHE", RequireMetadata: true}, nil)
	require.NoError(t, err)
	_, err = strictP.Parse(strings.NewReader(strings.Join(lines, "\n")))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, StageMetadata, perr.Stage)
}

func TestNewParserBadDepartment(t *testing.T) {
	_, err := NewParser(Options{Department: "che"}, nil)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestDialectForExtension(t *testing.T) {
	for ext, want := range map[string]Dialect{
		".txt": DialectFixedWidth,
		"lis":  DialectFixedWidth,
		".CSV": DialectBannerCSV,
	} {
		got, err := DialectForExtension(ext)
		require.NoError(t, err, "ext %q", ext)
		assert.Equal(t, want, got, "ext %q", ext)
	}

	_, err := DialectForExtension(".pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
