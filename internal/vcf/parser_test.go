package vcf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVCF = `##fileformat=VCFv4.2
##INFO=<ID=RU,Number=1,Type=String,Description="Repeat unit">
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO	FORMAT	NORMAL	TUMOR
chr1	1000	.	A	AA	50	PASS	END=1010;RU=A;REF=10	GT:REPCN	0/0:10,10	0/1:10,11
chr2	200	rs1	T	TT	.	q10	RU=T;REF=8;PERFECT=FALSE	GT:REPCN	0/0:8,8	0/0:8,8
`

func TestParser_FromReader(t *testing.T) {
	p, err := NewParserFromReader(strings.NewReader(testVCF))
	require.NoError(t, err)

	assert.Equal(t, []string{"NORMAL", "TUMOR"}, p.SampleNames())
	assert.Len(t, p.Header(), 3)

	v, err := p.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "chr1", v.Chrom)
	assert.Equal(t, int64(1000), v.Pos)
	assert.Equal(t, "A", v.Ref)
	assert.Equal(t, "AA", v.Alt)
	assert.Equal(t, 50.0, v.Qual)
	assert.Equal(t, "PASS", v.Filter)
	assert.Equal(t, "A", v.Info["RU"])
	assert.Equal(t, "10", v.Info["REF"])
	assert.Equal(t, []string{"GT", "REPCN"}, v.Format)
	require.Len(t, v.Samples, 2)
	assert.Equal(t, "10,11", v.FormatValue("REPCN", 1))
	assert.Equal(t, "chr1_1000", v.Locus())

	v, err = p.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "q10", v.Filter)
	assert.Equal(t, 0.0, v.Qual)
	assert.Equal(t, "FALSE", v.Info["PERFECT"])

	v, err = p.Next()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestParser_PlainAndGzipFiles(t *testing.T) {
	for _, path := range []string{"testdata/single.vcf", "testdata/single.vcf.gz"} {
		t.Run(path, func(t *testing.T) {
			p, err := NewParser(path)
			require.NoError(t, err)
			defer p.Close()

			assert.Equal(t, []string{"NORMAL", "TUMOR"}, p.SampleNames())

			v, err := p.Next()
			require.NoError(t, err)
			require.NotNil(t, v)
			assert.Equal(t, "chr1", v.Chrom)
			assert.Equal(t, "A", v.Info["RU"])

			v, err = p.Next()
			require.NoError(t, err)
			assert.Nil(t, v)
		})
	}
}

func TestParser_MissingCHROMHeader(t *testing.T) {
	_, err := NewParserFromReader(strings.NewReader("##fileformat=VCFv4.2\nchr1\t1\t.\tA\tT\t.\tPASS\t.\n"))
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "#CHROM")
}

func TestParser_MalformedLines(t *testing.T) {
	header := "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n"

	t.Run("too few columns", func(t *testing.T) {
		p, err := NewParserFromReader(strings.NewReader(header + "chr1\t100\n"))
		require.NoError(t, err)
		_, err = p.Next()
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, 2, perr.Line)
	})

	t.Run("bad position", func(t *testing.T) {
		p, err := NewParserFromReader(strings.NewReader(header + "chr1\txyz\t.\tA\tT\t.\tPASS\t.\n"))
		require.NoError(t, err)
		_, err = p.Next()
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Contains(t, perr.Message, "invalid position")
	})
}

func TestParser_SkipsEmptyLines(t *testing.T) {
	p, err := NewParserFromReader(strings.NewReader(
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n\nchr1\t5\t.\tA\tT\t.\tPASS\tRU=A\n"))
	require.NoError(t, err)

	v, err := p.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, int64(5), v.Pos)
}

func TestParseInfo_Flags(t *testing.T) {
	v := &Variant{Info: parseInfo("RU=AT;SOMETHING;REF=5")}
	assert.Equal(t, "AT", v.Info["RU"])
	assert.True(t, v.InfoFlag("SOMETHING"))
	assert.False(t, v.InfoFlag("ABSENT"))
}

func TestNormalizeChrom(t *testing.T) {
	assert.Equal(t, "12", (&Variant{Chrom: "chr12"}).NormalizeChrom())
	assert.Equal(t, "12", (&Variant{Chrom: "12"}).NormalizeChrom())
}
