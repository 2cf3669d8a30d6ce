package logpile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func builderParamValue(t *testing.T, element *Element, name string) string {
	t.Helper()
	index, err := element.FindParam(name)
	require.NoError(t, err)
	param, err := element.Param(index)
	require.NoError(t, err)
	return param.Value()
}

func TestBuildEntry(t *testing.T) {
	t.Run("full chain", func(t *testing.T) {
		when := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

		entry, err := BuildEntry().
			Facility(FacilityLocal3).
			Severity(SeverityErr).
			AppName("checkout").
			MsgID("PAY01").
			Messagef("payment %s declined", "p-99").
			Element("payment").
			Str("provider", "acme").
			Int("attempt", 3).
			Bool("retryable", true).
			Time("at", when).
			Element("customer").
			Str("tier", "gold").
			Entry()
		require.NoError(t, err)

		assert.Equal(t, FacilityLocal3, entry.facility)
		assert.Equal(t, SeverityErr, entry.severity)
		assert.Equal(t, "checkout", entry.appName)
		assert.Equal(t, "PAY01", entry.msgID)
		assert.Equal(t, "payment p-99 declined", entry.message)

		payment, err := entry.ElementByName("payment")
		require.NoError(t, err)
		assert.Equal(t, "acme", builderParamValue(t, payment, "provider"))
		assert.Equal(t, "3", builderParamValue(t, payment, "attempt"))
		assert.Equal(t, "true", builderParamValue(t, payment, "retryable"))
		assert.Equal(t, "2026-03-14T09:26:53.000000Z", builderParamValue(t, payment, "at"))

		customer, err := entry.ElementByName("customer")
		require.NoError(t, err)
		assert.Equal(t, "gold", builderParamValue(t, customer, "tier"))
	})

	t.Run("message with percent signs passes through verbatim", func(t *testing.T) {
		entry, err := BuildEntry().Message("load at 85% done").Entry()
		require.NoError(t, err)
		assert.Equal(t, "load at 85% done", entry.message)
	})

	t.Run("defaults to user info", func(t *testing.T) {
		entry, err := BuildEntry().Message("plain").Entry()
		require.NoError(t, err)

		assert.Equal(t, FacilityUser, entry.facility)
		assert.Equal(t, SeverityInfo, entry.severity)
	})

	t.Run("param before any element fails", func(t *testing.T) {
		_, err := BuildEntry().
			Message("m").
			Str("orphan", "x").
			Entry()
		require.Error(t, err)

		var libErr *Error
		require.ErrorAs(t, err, &libErr)
		assert.Equal(t, ErrorKindElementNotFound, libErr.Kind)
	})

	t.Run("duplicate element fails", func(t *testing.T) {
		_, err := BuildEntry().
			Message("m").
			Element("dup").
			Element("dup").
			Entry()
		require.Error(t, err)

		var libErr *Error
		require.ErrorAs(t, err, &libErr)
		assert.Equal(t, ErrorKindDuplicateElement, libErr.Kind)
	})

	t.Run("first error wins", func(t *testing.T) {
		_, err := BuildEntry().
			Message("m").
			Str("orphan", "x").
			Element("dup").
			Element("dup").
			Entry()
		require.Error(t, err)

		var libErr *Error
		require.ErrorAs(t, err, &libErr)
		assert.Equal(t, ErrorKindElementNotFound, libErr.Kind)
	})

	t.Run("invalid param name surfaces", func(t *testing.T) {
		_, err := BuildEntry().
			Message("m").
			Element("data").
			Str("has space", "x").
			Entry()
		require.Error(t, err)
	})
}
