package services

import "errors"

var (
	// ErrInvalidTransition: perubahan status laundry tidak diizinkan
	// dari status sekarang.
	ErrInvalidTransition = errors.New("perubahan status order tidak diizinkan")

	// ErrDuplicatePeriod: tagihan untuk (penghuni, bulan, tahun) sudah ada.
	ErrDuplicatePeriod = errors.New("tagihan untuk periode ini sudah ada")

	// ErrConcurrencyConflict: pembuatan kode order kalah konflik berulang
	// kali; seluruh operasi boleh diulang oleh pemanggil.
	ErrConcurrencyConflict = errors.New("konflik penulisan bersamaan, silakan coba lagi")

	// ErrNotFound: entitas yang dirujuk tidak ada.
	ErrNotFound = errors.New("data tidak ditemukan")

	// ErrPaymentExceeds: jumlah bayar melebihi sisa tagihan.
	ErrPaymentExceeds = errors.New("jumlah pembayaran melebihi sisa tagihan")

	// ErrPaymentNotPending: hanya pembayaran berstatus Menunggu yang
	// dapat diverifikasi atau ditolak.
	ErrPaymentNotPending = errors.New("pembayaran sudah diproses sebelumnya")

	// ErrBillLocked: tagihan lunas tidak dapat diubah.
	ErrBillLocked = errors.New("tagihan yang sudah lunas tidak dapat diubah")

	// ErrServiceInactive: jenis layanan laundry sedang non-aktif.
	ErrServiceInactive = errors.New("jenis layanan laundry tidak aktif")
)
