package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func cur(sym, price string) Currency {
	return Currency{Symbol: Symbol(sym), PriceUSD: decimal.RequireFromString(price)}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestConvert_TruncatesNeverRoundsUp(t *testing.T) {
	t.Parallel()
	got, err := Convert(cur("BTC", "68000"), cur("ETH", "3500"), dec("1"))
	require.NoError(t, err)
	require.Equal(t, "19.428571", got.Rate.StringFixed(6))
	require.Equal(t, "19.428571", got.Converted.StringFixed(6))
	require.Equal(t, Symbol("BTC"), got.From)
	require.Equal(t, Symbol("ETH"), got.To)
}

func TestConvert_SameSymbolIsIdentity(t *testing.T) {
	t.Parallel()
	for _, amount := range []string{"1", "0.000001", "2.5", "123456.789012"} {
		got, err := Convert(cur("SOL", "150"), cur("SOL", "150"), dec(amount))
		require.NoError(t, err)
		require.True(t, got.Rate.Equal(dec("1")), "rate %s", got.Rate)
		require.True(t, got.Converted.Equal(dec(amount)), "amount %s converted %s", amount, got.Converted)
	}
}

func TestConvert_ScaleLinearUpToTruncation(t *testing.T) {
	t.Parallel()
	pairs := [][2]Currency{
		{cur("BTC", "68000"), cur("ETH", "3500")},
		{cur("SHIB", "0.000025"), cur("XRP", "0.85")},
		{cur("DOT", "8.50"), cur("TRX", "0.08")},
	}
	amounts := []string{"0.01", "1", "3.333333"}
	factors := []int64{1, 2, 7, 1000}
	ulp := decimal.New(1, -ConversionScale)
	for _, p := range pairs {
		for _, a := range amounts {
			base, err := Convert(p[0], p[1], dec(a))
			require.NoError(t, err)
			for _, k := range factors {
				kd := decimal.NewFromInt(k)
				scaled, err := Convert(p[0], p[1], dec(a).Mul(kd))
				require.NoError(t, err)
				diff := scaled.Converted.Sub(base.Converted.Mul(kd)).Abs()
				bound := ulp.Mul(kd.Add(decimal.NewFromInt(1)))
				require.True(t, diff.LessThanOrEqual(bound),
					"%s->%s a=%s k=%d diff=%s", p[0].Symbol, p[1].Symbol, a, k, diff)
			}
		}
	}
}

func TestConvert_Errors(t *testing.T) {
	t.Parallel()
	_, err := Convert(cur("BTC", "68000"), cur("ETH", "3500"), dec("0"))
	require.ErrorIs(t, err, ErrInvalidAmount)
	_, err = Convert(cur("BTC", "68000"), cur("ETH", "3500"), dec("-1"))
	require.ErrorIs(t, err, ErrInvalidAmount)
	_, err = Convert(cur("BTC", "68000"), cur("NEW", "0"), dec("1"))
	require.ErrorIs(t, err, ErrInvalidSymbol)
}

func TestParseAmount(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		ok   bool
		want string
	}{
		{"1", true, "1"},
		{"0.01", true, "0.01"},
		{"1e2", true, "100"},
		{"0.1234567891", true, "0.1234567891"},
		{"", false, ""},
		{"abc", false, ""},
		{"0", false, ""},
		{"-3", false, ""},
		{"0.12345678912", false, ""},
		{"100000000000000000000", false, ""},
	}
	for _, c := range cases {
		got, err := ParseAmount(c.in)
		if !c.ok {
			require.ErrorIs(t, err, ErrInvalidAmount, "input %q", c.in)
			continue
		}
		require.NoError(t, err, "input %q", c.in)
		require.True(t, got.Equal(dec(c.want)), "input %q got %s", c.in, got)
	}
}
