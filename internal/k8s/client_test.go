package k8s

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	storagev1 "k8s.io/api/storage/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
)

func TestNewClientFromBytes_Invalid(t *testing.T) {
	t.Parallel()
	_, err := NewClientFromBytes([]byte("not-valid-kubeconfig"))
	assert.Error(t, err)

	_, err = NewClientFromBytes(nil)
	assert.Error(t, err)
}

func TestStorageClass(t *testing.T) {
	t.Parallel()

	sc := &storagev1.StorageClass{
		ObjectMeta:  metav1.ObjectMeta{Name: "managed-nfs-storage"},
		Provisioner: "cluster.local/nfs",
	}
	c := NewClient(fake.NewClientBuilder().WithScheme(Scheme()).WithObjects(sc).Build())

	got, err := c.StorageClass(context.Background(), "managed-nfs-storage")
	require.NoError(t, err)
	assert.Equal(t, "cluster.local/nfs", got.Provisioner)

	_, err = c.StorageClass(context.Background(), "missing")
	assert.Error(t, err)
}

func TestWaitForStorageClass(t *testing.T) {
	t.Parallel()

	t.Run("present", func(t *testing.T) {
		t.Parallel()
		sc := &storagev1.StorageClass{
			ObjectMeta:  metav1.ObjectMeta{Name: "nfs"},
			Provisioner: "cluster.local/nfs",
		}
		c := NewClient(fake.NewClientBuilder().WithScheme(Scheme()).WithObjects(sc).Build())

		require.NoError(t, c.WaitForStorageClass(context.Background(), "nfs", "cluster.local/nfs", time.Second))
		require.NoError(t, c.WaitForStorageClass(context.Background(), "nfs", "", time.Second))
	})

	t.Run("wrong provisioner", func(t *testing.T) {
		t.Parallel()
		sc := &storagev1.StorageClass{
			ObjectMeta:  metav1.ObjectMeta{Name: "nfs"},
			Provisioner: "other",
		}
		c := NewClient(fake.NewClientBuilder().WithScheme(Scheme()).WithObjects(sc).Build())

		err := c.WaitForStorageClass(context.Background(), "nfs", "cluster.local/nfs", 100*time.Millisecond)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `uses provisioner "other"`)
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		c := NewClient(fake.NewClientBuilder().WithScheme(Scheme()).Build())

		err := c.WaitForStorageClass(context.Background(), "nfs", "", 100*time.Millisecond)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "did not appear")
	})
}
