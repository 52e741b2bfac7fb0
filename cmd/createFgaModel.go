// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/openfga/go-sdk/client"
	"github.com/spf13/cobra"
	corev1 "k8s.io/api/core/v1"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/canonical/scheduling-service/internal/authorization"
	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
	"github.com/canonical/scheduling-service/internal/openfga"
	"github.com/canonical/scheduling-service/internal/tracing"
)

const (
	StoreName = "scheduling-service"

	configMapStoreKey = "OPENFGA_STORE_ID"
	configMapModelKey = "OPENFGA_AUTHORIZATION_MODEL_ID"
)

var createFgaModelCmd = &cobra.Command{
	Use:   "create-fga-model",
	Short: "Creates the openfga authorization model",
	Long:  `Writes the entity membership model to openfga, creating the store when no store ID is given`,
	RunE: func(cmd *cobra.Command, args []string) error {
		apiURL, _ := cmd.Flags().GetString("fga-api-url")
		apiToken, _ := cmd.Flags().GetString("fga-api-token")
		storeID, _ := cmd.Flags().GetString("fga-store-id")
		verbose, _ := cmd.Flags().GetBool("verbose")
		configMap, _ := cmd.Flags().GetString("store-k8s-configmap-resource")
		kubeconfig, _ := cmd.Flags().GetString("kubeconfig")

		ctx := cmd.Context()

		modelID, finalStoreID, err := createModel(ctx, apiURL, apiToken, storeID, verbose)
		if err != nil {
			return err
		}

		if configMap != "" {
			if err := storeInConfigMap(ctx, kubeconfig, configMap, finalStoreID, modelID); err != nil {
				return fmt.Errorf("failed to update configmap: %w", err)
			}
		}

		result := map[string]string{"store_id": finalStoreID, "model_id": modelID}

		return render(cmd.OutOrStdout(), result, func(w io.Writer) {
			fmt.Fprintf(w, "Model:\t%s\n", modelID)
			fmt.Fprintf(w, "Store:\t%s\n", finalStoreID)
			if configMap != "" {
				fmt.Fprintf(w, "ConfigMap:\t%s\n", configMap)
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(createFgaModelCmd)

	createFgaModelCmd.Flags().String("fga-api-url", "", "The openfga API URL")
	createFgaModelCmd.Flags().String("fga-api-token", "", "The openfga API token")
	createFgaModelCmd.Flags().String("fga-store-id", "", "The openfga store to create the model in, if empty one will be created")
	createFgaModelCmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging")
	createFgaModelCmd.Flags().String("store-k8s-configmap-resource", "", "The configmap resource to store the FGA Store ID and Model ID, format: namespace/name")
	createFgaModelCmd.Flags().String("kubeconfig", "", "Path to the kubeconfig file (optional, defaults to in-cluster config)")
	_ = createFgaModelCmd.MarkFlagRequired("fga-api-url")
	_ = createFgaModelCmd.MarkFlagRequired("fga-api-token")
}

func createModel(ctx context.Context, apiURL, apiToken, storeID string, verbose bool) (string, string, error) {
	logger := logging.NewNoopLogger()
	tracer := tracing.NewNoopTracer()
	monitor := monitoring.NewNoopMonitor(StoreName, logger)

	u, err := url.Parse(apiURL)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse url: %w", err)
	}

	fga := openfga.NewClient(openfga.NewConfig(u.Scheme, u.Host, storeID, apiToken, "", verbose, tracer, monitor, logger))

	if storeID == "" {
		if storeID, err = fga.CreateStore(ctx, StoreName); err != nil {
			return "", "", fmt.Errorf("failed to create store: %w", err)
		}
		if err := fga.SetStoreID(ctx, storeID); err != nil {
			return "", "", fmt.Errorf("failed to select store %s: %w", storeID, err)
		}
	}

	model, err := authorization.NewAuthorizationModelProvider("v0").GetModel()
	if err != nil {
		return "", "", fmt.Errorf("failed to load authorization model: %w", err)
	}

	modelID, err := fga.WriteModel(ctx, &client.ClientWriteAuthorizationModelRequest{
		TypeDefinitions: model.TypeDefinitions,
		SchemaVersion:   model.SchemaVersion,
		Conditions:      model.Conditions,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to write model: %w", err)
	}

	return modelID, storeID, nil
}

func kubeConfig(path string) (*rest.Config, error) {
	if path != "" {
		return clientcmd.BuildConfigFromFlags("", path)
	}

	if config, err := rest.InClusterConfig(); err == nil {
		return config, nil
	}

	// running outside a cluster without --kubeconfig
	loader := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		clientcmd.NewDefaultClientConfigLoadingRules(),
		&clientcmd.ConfigOverrides{},
	)
	return loader.ClientConfig()
}

// storeInConfigMap writes the store and model IDs in the namespace/name
// configmap so that serve picks them up through its environment.
func storeInConfigMap(ctx context.Context, kubeconfig, resource, storeID, modelID string) error {
	namespace, name, ok := strings.Cut(resource, "/")
	if !ok || namespace == "" || name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("invalid configmap resource format: %s, expected namespace/name", resource)
	}

	config, err := kubeConfig(kubeconfig)
	if err != nil {
		return fmt.Errorf("failed to load kubeconfig: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	configMaps := clientset.CoreV1().ConfigMaps(namespace)

	cm, err := configMaps.Get(ctx, name, metav1.GetOptions{})
	if k8serrors.IsNotFound(err) {
		cm = &corev1.ConfigMap{
			ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
			Data:       map[string]string{configMapStoreKey: storeID, configMapModelKey: modelID},
		}
		if _, err := configMaps.Create(ctx, cm, metav1.CreateOptions{}); err != nil {
			return fmt.Errorf("failed to create configmap %s: %w", resource, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get configmap %s: %w", resource, err)
	}

	if cm.Data == nil {
		cm.Data = make(map[string]string)
	}
	cm.Data[configMapStoreKey] = storeID
	cm.Data[configMapModelKey] = modelID

	if _, err := configMaps.Update(ctx, cm, metav1.UpdateOptions{}); err != nil {
		return fmt.Errorf("failed to update configmap %s: %w", resource, err)
	}

	return nil
}
