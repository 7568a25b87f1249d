package service

import (
	"io"
	"strings"
	"testing"

	"github.com/Satheshwaran26/rentr/internal/config"
	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceApproval_ClosesOrder(t *testing.T) {
	f := newFixture(t, config.LifecycleConfig{})
	v := f.plumber()
	wo := f.completedOrder(v)

	invoice, err := f.invoices.Submit(asVendor(v), wo.ID, &domain.SubmitInvoiceRequest{Amount: 520, Notes: "Replaced valve"}, &Document{
		Name:        "invoice-0042.pdf",
		ContentType: "application/pdf",
		Body:        strings.NewReader("%PDF-1.4 invoice"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPending, invoice.Status)
	assert.True(t, invoice.HasDocument)
	assert.Equal(t, domain.WorkOrderStatusInvoiceSubmitted, f.order(wo.ID).Status)

	body, name, err := f.invoices.Download(asUser(f.agent), invoice.ID)
	require.NoError(t, err)
	content, err := io.ReadAll(body)
	require.NoError(t, body.Close())
	require.NoError(t, err)
	assert.Equal(t, "invoice-0042.pdf", name)
	assert.Equal(t, "%PDF-1.4 invoice", string(content))

	approved, err := f.invoices.Approve(asUser(f.agent), invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusApproved, approved.Status)

	closed := f.order(wo.ID)
	assert.Equal(t, domain.WorkOrderStatusClosed, closed.Status)
	require.NotNil(t, closed.ActualCost)
	assert.InDelta(t, 520.0, *closed.ActualCost, 0.001)

	history, err := f.orders.History(asUser(f.agent), wo.ID)
	require.NoError(t, err)
	last := history[len(history)-1]
	assert.Equal(t, domain.WorkOrderStatusClosed, last.ToStatus)
	assert.Equal(t, domain.RoleSystem, last.ChangedByRole)
	assert.Equal(t, domain.WorkOrderStatusInvoiceApproved, history[len(history)-2].ToStatus)

	_, err = f.invoices.Approve(asUser(f.agent), invoice.ID)
	requireKind(t, err, domain.KindAlreadyDecided)
	assert.Equal(t, int64(1), f.countEvents(domain.EventInvoiceApproved, invoice.ID))
}

func TestInvoiceRejection_ReturnsToCompleted(t *testing.T) {
	f := newFixture(t, config.LifecycleConfig{})
	v := f.plumber()
	wo := f.completedOrder(v)

	first, err := f.invoices.Submit(asVendor(v), wo.ID, &domain.SubmitInvoiceRequest{Amount: 900}, nil)
	require.NoError(t, err)

	_, err = f.invoices.Reject(asUser(f.agent), first.ID, &domain.RequiredReasonRequest{})
	requireKind(t, err, domain.KindValidation)

	rejected, err := f.invoices.Reject(asUser(f.agent), first.ID, &domain.RequiredReasonRequest{Reason: "Amount exceeds the quote"})
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusRejected, rejected.Status)
	assert.Equal(t, domain.WorkOrderStatusCompleted, f.order(wo.ID).Status)

	second, err := f.invoices.Submit(asVendor(v), wo.ID, &domain.SubmitInvoiceRequest{Amount: 500}, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	mine, err := f.invoices.List(asVendor(v), nil)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestSubmitInvoice_Guards(t *testing.T) {
	f := newFixture(t, config.LifecycleConfig{})
	v, other := f.plumber(), f.plumber()

	notDone := f.assignedOrder(v)
	_, err := f.invoices.Submit(asVendor(v), notDone.ID, &domain.SubmitInvoiceRequest{Amount: 100}, nil)
	requireKind(t, err, domain.KindInvalidTransition)

	done := f.completedOrder(v)
	_, err = f.invoices.Submit(asVendor(other), done.ID, &domain.SubmitInvoiceRequest{Amount: 100}, nil)
	requireKind(t, err, domain.KindUnauthorized)

	_, err = f.invoices.Submit(asVendor(v), done.ID, &domain.SubmitInvoiceRequest{Amount: -5}, nil)
	requireKind(t, err, domain.KindValidation)

	invoice, err := f.invoices.Submit(asVendor(v), done.ID, &domain.SubmitInvoiceRequest{Amount: 100}, nil)
	require.NoError(t, err)

	_, err = f.invoices.Approve(asVendor(v), invoice.ID)
	requireKind(t, err, domain.KindUnauthorized)

	_, _, err = f.invoices.Download(asVendor(v), invoice.ID)
	requireKind(t, err, domain.KindNotFound)

	_, _, err = f.invoices.Download(asVendor(other), invoice.ID)
	requireKind(t, err, domain.KindUnauthorized)
}
