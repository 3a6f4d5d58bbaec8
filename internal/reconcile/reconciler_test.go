// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

package reconcile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	crclient "sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	clevercloudv1alpha1 "github.com/clevercloud/clever-operator/api/v1alpha1"
	"github.com/clevercloud/clever-operator/internal/clevercloud"
	"github.com/clevercloud/clever-operator/internal/finalizer"
	"github.com/clevercloud/clever-operator/internal/kube"
	"github.com/clevercloud/clever-operator/internal/registry"
	"github.com/clevercloud/clever-operator/internal/telemetry"
)

// newFakeCluster builds a Gateway over a fake controller-runtime client,
// returning the underlying raw client and event recorder too so tests can
// assert against objects (secrets, deletion state) and events the Gateway
// itself does not expose accessors for.
func newFakeCluster(objs ...crclient.Object) (*kube.Gateway, crclient.Client, *record.FakeRecorder) {
	s := scheme.Scheme
	Expect(clevercloudv1alpha1.AddToScheme(s)).To(Succeed())

	c := fake.NewClientBuilder().
		WithScheme(s).
		WithStatusSubresource(&clevercloudv1alpha1.Redis{}).
		WithObjects(objs...).
		Build()
	recorder := record.NewFakeRecorder(64)
	return kube.New(c, s, recorder), c, recorder
}

// drainEvents returns every event recorded so far, without blocking.
func drainEvents(recorder *record.FakeRecorder) []string {
	var out []string
	for {
		select {
		case e := <-recorder.Events:
			out = append(out, e)
		default:
			return out
		}
	}
}

func newRedisCRO() *clevercloudv1alpha1.Redis {
	return &clevercloudv1alpha1.Redis{
		ObjectMeta: metav1.ObjectMeta{
			Name:       "redis",
			Namespace:  "default",
			UID:        "11111111-1111-1111-1111-111111111111",
			Finalizers: nil,
		},
		Spec: clevercloudv1alpha1.AddonSpec{
			Organisation: "orga_AAAA",
			Instance:     &clevercloudv1alpha1.AddonInstance{Region: "par", Plan: "s_mono"},
			Options:      map[string]string{"version": "626"},
		},
	}
}

var _ = Describe("Reconciler", func() {
	var (
		vendor       *vendorStub
		server       *httptest.Server
		vendorClient *clevercloud.Client
		raw          crclient.Client
		recorder     *record.FakeRecorder
		cluster      *kube.Gateway
		r            *Reconciler
		ctx          context.Context
		nsName       types.NamespacedName
	)

	BeforeEach(func() {
		ctx = context.Background()
		nsName = types.NamespacedName{Namespace: "default", Name: "redis"}

		vendor = newVendorStub().withPlan("redis-addon", "s_mono", "plan_s_mono", "par")
		server = vendor.server()

		var err error
		vendorClient, err = clevercloud.New(server.URL, clevercloud.Credentials{Token: "tok"}, http.DefaultClient)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		server.Close()
		telemetry.Clear()
	})

	buildReconciler := func(cro *clevercloudv1alpha1.Redis) *Reconciler {
		cluster, raw, recorder = newFakeCluster(cro)
		deps := Deps{
			Cluster:   cluster,
			Vendor:    vendorClient,
			Finalizer: finalizer.New(cluster),
			Metrics:   telemetry.New(),
			Health:    telemetry.NewClusterHealth(30 * time.Second),
		}
		reg := registry.New()
		family, ok := reg.Lookup("redis")
		Expect(ok).To(BeTrue())
		return New(deps, family, func() clevercloudv1alpha1.CustomResource { return &clevercloudv1alpha1.Redis{} }, "clever-operator")
	}

	fetch := func() *clevercloudv1alpha1.Redis {
		out := &clevercloudv1alpha1.Redis{}
		Expect(raw.Get(ctx, nsName, out)).To(Succeed())
		return out
	}

	req := ctrl.Request{NamespacedName: types.NamespacedName{Namespace: "default", Name: "redis"}}

	It("drives the happy path from observed to steady", func() {
		r = buildReconciler(newRedisCRO())

		// S0: install finalizer.
		_, err := r.Reconcile(ctx, req)
		Expect(err).NotTo(HaveOccurred())
		Expect(fetch().GetFinalizers()).To(ContainElement(clevercloudv1alpha1.FinalizerToken))

		// S1: identity reconciliation provisions a remote add-on.
		_, err = r.Reconcile(ctx, req)
		Expect(err).NotTo(HaveOccurred())
		cro := fetch()
		Expect(cro.GetAddonStatus().HasAddon()).To(BeTrue())
		addonID := cro.GetAddonStatus().AddonID()

		// S2: credentials not yet ready.
		result, err := r.Reconcile(ctx, req)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.RequeueAfter).To(Equal(credentialsRequeue))

		vendor.readyEnv(addonID, map[string]string{
			"host": "redis-host", "port": "4242", "password": "pw", "token": "tk", "uri": "redis://x", "version": "626",
		})

		// S2 -> S3: credentials published.
		result, err = r.Reconcile(ctx, req)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.RequeueAfter).To(Equal(steadyRequeue))

		secret := &corev1.Secret{}
		Expect(raw.Get(ctx, types.NamespacedName{Namespace: "default", Name: "redis-secrets"}, secret)).To(Succeed())
		Expect(secret.Data["REDIS_HOST"]).To(Equal([]byte("redis-host")))
		Expect(secret.Data["REDIS_PASSWORD"]).To(Equal([]byte("pw")))
		Expect(secret.OwnerReferences).To(HaveLen(1))
		Expect(*secret.OwnerReferences[0].Controller).To(BeTrue())
		Expect(*secret.OwnerReferences[0].BlockOwnerDeletion).To(BeTrue())

		// S3 steady: re-reconcile is idempotent.
		result, err = r.Reconcile(ctx, req)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.RequeueAfter).To(Equal(steadyRequeue))
	})

	It("warns SpecImmutable on a plan edit without calling the vendor", func() {
		r = buildReconciler(newRedisCRO())

		Expect(reconcileTo(ctx, r, req)).NotTo(HaveOccurred()) // S0
		Expect(reconcileTo(ctx, r, req)).NotTo(HaveOccurred()) // S1
		addonID := fetch().GetAddonStatus().AddonID()
		vendor.readyEnv(addonID, map[string]string{"host": "h", "port": "1", "password": "p", "token": "t", "uri": "u", "version": "626"})
		Expect(reconcileTo(ctx, r, req)).NotTo(HaveOccurred()) // S2 -> S3

		before := fetch().GetAddonStatus().ProvisionedFingerprint

		edited := fetch()
		edited.Spec.Instance.Plan = "m_mono"
		edited.Generation = 2
		Expect(raw.Update(ctx, edited)).To(Succeed())

		Expect(reconcileTo(ctx, r, req)).NotTo(HaveOccurred())

		Expect(fetch().GetAddonStatus().ProvisionedFingerprint).To(Equal(before))
		Expect(vendor.createCallCount()).To(Equal(1))
		Expect(drainEvents(recorder)).To(ContainElement(HavePrefix(corev1.EventTypeWarning + " " + ReasonSpecImmutable)))
	})

	It("adopts a pre-existing remote add-on by canonical name instead of creating a duplicate", func() {
		cro := newRedisCRO()
		r = buildReconciler(cro)

		canonical := canonicalName("clever-operator", cro)
		vendor.seedAddon("addon_precreated", canonical, "redis-addon")

		// S0: install finalizer. The remote add-on already exists (as if a
		// previous reconcile crashed between CreateAddon and PatchCROStatus).
		Expect(reconcileTo(ctx, r, req)).NotTo(HaveOccurred())

		// S1: identity reconciliation must find and adopt it via
		// ListAddonsByName rather than calling CreateAddon again.
		Expect(reconcileTo(ctx, r, req)).NotTo(HaveOccurred())

		Expect(vendor.createCallCount()).To(Equal(0))
		Expect(fetch().GetAddonStatus().AddonID()).To(Equal("addon_precreated"))
		Expect(vendor.addonCount()).To(Equal(1))
	})

	It("deletes the remote add-on and releases the finalizer on termination", func() {
		r = buildReconciler(newRedisCRO())

		Expect(reconcileTo(ctx, r, req)).NotTo(HaveOccurred()) // S0
		Expect(reconcileTo(ctx, r, req)).NotTo(HaveOccurred()) // S1
		addonID := fetch().GetAddonStatus().AddonID()

		Expect(raw.Delete(ctx, fetch())).To(Succeed())

		Expect(reconcileTo(ctx, r, req)).NotTo(HaveOccurred())

		Expect(vendor.isDeleted(addonID)).To(BeTrue())

		var gone clevercloudv1alpha1.Redis
		err := raw.Get(ctx, nsName, &gone)
		Expect(err).To(HaveOccurred())
	})
})

func reconcileTo(ctx context.Context, r *Reconciler, req ctrl.Request) error {
	_, err := r.Reconcile(ctx, req)
	return err
}
